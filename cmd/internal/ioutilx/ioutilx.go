package ioutilx

import "os"

var (
	OS       = InjectableOS{}
	IOReader = InjectableIOReader{}
)

type FileReader interface {
	ReadFile(string) ([]byte, error)
}

type InjectableIOReader struct{}

func (InjectableIOReader) ReadFile(filename string) ([]byte, error) {
	return os.ReadFile(filename)
}

type Statter interface {
	Stat(string) (os.FileInfo, error)
}

type InjectableOS struct{}

func (InjectableOS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}
