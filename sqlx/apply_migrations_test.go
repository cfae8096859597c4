package sqlx_test

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"code.cloudfoundry.org/lager/lagertest"
	sqlmock "github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/logx/lagerx"
	. "github.com/JohnathanALves/reaction/sqlx"
)

var _ = Describe("#ApplyMigrations", func() {
	const tableName = "group_migrations"

	var (
		ctx    context.Context
		logger logx.Logger

		fakeConn *sql.DB
		mock     sqlmock.Sqlmock
		conn     *DB

		migrations []Migration
	)

	BeforeEach(func() {
		ctx = context.Background()
		logger = lagerx.NewLogger(lagertest.NewTestLogger("sqlx"))

		var err error
		fakeConn, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		conn = NewDB(fakeConn, DBDriverMySQL)

		migrations = []Migration{
			fakeMigration("add_shop_group"),
			fakeMigration("add_group_permission"),
		}
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
	})

	expectCreateTable := func() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS `" + tableName + "`").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()
	}

	It("creates the bookkeeping table even when there is nothing to apply", func() {
		expectCreateTable()

		Expect(ApplyMigrations(ctx, logger, conn, tableName, nil)).To(Succeed())
	})

	It("returns the error when the create-table commit fails", func() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit().WillReturnError(errors.New("commit-failed"))

		err := ApplyMigrations(ctx, logger, conn, tableName, nil)
		Expect(err).To(MatchError("commit-failed"))
	})

	It("rolls back when creating the table fails", func() {
		mock.ExpectBegin()
		mock.ExpectExec("CREATE TABLE").
			WillReturnError(errors.New("create-table-failed"))
		mock.ExpectRollback()

		err := ApplyMigrations(ctx, logger, conn, tableName, nil)
		Expect(err).To(MatchError("create-table-failed"))
	})

	It("applies pending migrations in order, recording each one", func() {
		expectCreateTable()

		mock.ExpectQuery("SELECT version, name, applied_at FROM " + tableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}))

		mock.ExpectBegin()
		mock.ExpectExec("APPLY add_shop_group").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO "+tableName).
			WithArgs(0, "add_shop_group", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		mock.ExpectBegin()
		mock.ExpectExec("APPLY add_group_permission").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO "+tableName).
			WithArgs(1, "add_group_permission", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		Expect(ApplyMigrations(ctx, logger, conn, tableName, migrations)).To(Succeed())
	})

	It("skips migrations that are already recorded", func() {
		expectCreateTable()

		mock.ExpectQuery("SELECT version, name, applied_at FROM " + tableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}).
				AddRow("0", "add_shop_group", time.Now()),
			)

		mock.ExpectBegin()
		mock.ExpectExec("APPLY add_group_permission").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("INSERT INTO "+tableName).
			WithArgs(1, "add_group_permission", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		Expect(ApplyMigrations(ctx, logger, conn, tableName, migrations)).To(Succeed())
	})

	It("stops at the first migration that fails", func() {
		expectCreateTable()

		mock.ExpectQuery("SELECT version, name, applied_at FROM " + tableName).
			WillReturnRows(sqlmock.NewRows([]string{"version", "name", "applied_at"}))

		mock.ExpectBegin()
		mock.ExpectExec("APPLY add_shop_group").
			WillReturnError(errors.New("migration-failed"))
		mock.ExpectRollback()

		err := ApplyMigrations(ctx, logger, conn, tableName, migrations)
		Expect(err).To(MatchError("migration-failed"))
	})
})
