package ioutilx_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/JohnathanALves/reaction/cmd/internal/ioutilx"
)

var _ = Describe("FileOrString", func() {
	Describe("#Bytes", func() {
		var tmpDir string

		BeforeEach(func() {
			var err error
			tmpDir, err = os.MkdirTemp("", "ioutilx")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			Expect(os.RemoveAll(tmpDir)).To(Succeed())
		})

		It("returns the file contents when the value is a readable path", func() {
			path := filepath.Join(tmpDir, "ca.pem")
			Expect(os.WriteFile(path, []byte("file contents"), 0600)).To(Succeed())

			subject := ioutilx.FileOrString(path)

			b, err := subject.Bytes(ioutilx.OS, ioutilx.IOReader)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("file contents"))
		})

		It("returns the value itself when it does not stat", func() {
			subject := ioutilx.FileOrString("some string")

			b, err := subject.Bytes(ioutilx.OS, ioutilx.IOReader)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("some string"))
		})

		It("expands escaped newlines in a literal value", func() {
			subject := ioutilx.FileOrString("some\\nstring")

			b, err := subject.Bytes(ioutilx.OS, ioutilx.IOReader)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(b)).To(Equal("some\nstring"))
		})

		It("fails when the path points to a directory", func() {
			subject := ioutilx.FileOrString(tmpDir)

			_, err := subject.Bytes(ioutilx.OS, ioutilx.IOReader)
			Expect(err).To(MatchError(fmt.Sprintf("path '%s' is a directory, not a file", tmpDir)))
		})

		It("fails when the file cannot be read", func() {
			path := filepath.Join(tmpDir, "ca.pem")
			Expect(os.WriteFile(path, []byte("file contents"), 0600)).To(Succeed())

			subject := ioutilx.FileOrString(path)

			_, err := subject.Bytes(ioutilx.OS, failingReader{})
			Expect(err).To(MatchError("read refused"))
		})
	})
})

type failingReader struct{}

func (failingReader) ReadFile(string) ([]byte, error) {
	return nil, errors.New("read refused")
}
