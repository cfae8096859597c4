package sqlx

import "github.com/JohnathanALves/reaction/logx"

// Commit commits the transaction when err is nil, and rolls it back
// otherwise. The caller's error always wins over commit bookkeeping.
func Commit(logger logx.Logger, tx *Tx, err error) error {
	if err == nil {
		if commitErr := tx.Commit(); commitErr != nil {
			logger.Error(failedToCommit, commitErr)
			return commitErr
		}

		logger.Debug(committed)

		return nil
	}

	if rollbackErr := tx.Rollback(); rollbackErr != nil {
		logger.Error(failedToRollback, rollbackErr)
	}

	return err
}
