/*
 * @Description: 把各数据库驱动的错误码归类为仓储层的结构化错误
 * @Author: 安知鱼
 * @Date: 2025-10-21 13:52:06
 * @LastEditTime: 2025-10-21 13:52:06
 * @LastEditors: 安知鱼
 */
package ent

import (
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/ncruces/go-sqlite3"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
)

// PostgreSQL SQLSTATE
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// MySQL 错误号
const (
	mysqlDupEntry         uint16 = 1062
	mysqlRowIsReferenced  uint16 = 1451
	mysqlNoReferencedRow  uint16 = 1452
	mysqlBadNull          uint16 = 1048
	mysqlCheckConstraint  uint16 = 3819
	mysqlRowIsReferenced2 uint16 = 1217
	mysqlNoReferencedRow2 uint16 = 1216
)

// classify 识别驱动返回的错误，已知的约束错误被包装为 *repository.ConstraintError，
// sql.ErrNoRows 转换为 repository.ErrRecordNotFound，其余错误原样返回。
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrRecordNotFound
	}
	if kind, ok := constraintKind(err); ok {
		return &repository.ConstraintError{Kind: kind, Err: err}
	}
	return err
}

func constraintKind(err error) (repository.ConstraintKind, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgStateKind(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgStateKind(string(pqErr.Code))
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDupEntry:
			return repository.ConstraintUnique, true
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferenced2, mysqlNoReferencedRow2:
			return repository.ConstraintForeignKey, true
		case mysqlBadNull:
			return repository.ConstraintNotNull, true
		case mysqlCheckConstraint:
			return repository.ConstraintCheck, true
		}
		return "", false
	}

	switch {
	case errors.Is(err, sqlite3.CONSTRAINT_UNIQUE), errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY):
		return repository.ConstraintUnique, true
	case errors.Is(err, sqlite3.CONSTRAINT_FOREIGNKEY):
		return repository.ConstraintForeignKey, true
	case errors.Is(err, sqlite3.CONSTRAINT_CHECK):
		return repository.ConstraintCheck, true
	case errors.Is(err, sqlite3.CONSTRAINT_NOTNULL):
		return repository.ConstraintNotNull, true
	}
	return "", false
}

func pgStateKind(code string) (repository.ConstraintKind, bool) {
	switch code {
	case pgUniqueViolation:
		return repository.ConstraintUnique, true
	case pgForeignKeyViolation:
		return repository.ConstraintForeignKey, true
	case pgCheckViolation:
		return repository.ConstraintCheck, true
	case pgNotNullViolation:
		return repository.ConstraintNotNull, true
	}
	return "", false
}
