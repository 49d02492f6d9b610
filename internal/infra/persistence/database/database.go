/*
 * @Description: 数据库连接管理 (支持多种数据库)
 * @Author: 安知鱼
 * @Date: 2025-07-12 16:09:46
 * @LastEditTime: 2025-10-21 13:05:50
 * @LastEditors: 安知鱼
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/anzhiyu-c/anheyu-press/pkg/config"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// NewSQLDB 创建并返回一个标准的 *sql.DB 连接池，支持多种数据库。
func NewSQLDB(cfg *config.Config) (*sql.DB, error) {
	driver := cfg.GetString(config.KeyDBType)
	if driver == "" {
		log.Println("提示: 配置文件中未指定 'Database.Type'，将默认使用 'sqlite'")
		driver = "sqlite"
	}

	var dsn string
	var driverName string

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	switch driver {
	case "mysql", "mariadb":
		driverName = "mysql"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("MySQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
	case "postgres", "pgx":
		// postgres 使用 lib/pq，pgx 使用 jackc/pgx 的 database/sql 适配
		driverName = driver
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("PostgreSQL 连接参数不完整 (需要 User, Host, Port, Name)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case "sqlite", "sqlite3":
		finalDbName := dbName
		if finalDbName == "" {
			finalDbName = "anheyu_press.db"
		}

		// 相对路径放在 ./data 目录下，绝对路径原样使用
		finalPath := finalDbName
		if !filepath.IsAbs(finalDbName) {
			dataDir := "./data"
			if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("无法创建 data 目录: %w", err)
			}
			finalPath = filepath.Join(dataDir, finalDbName)
		}
		log.Printf("【提示】SQLite 数据库路径: %s\n", finalPath)
		return OpenSQLite(finalPath)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s (支持: mysql/mariadb, postgres, pgx, sqlite)", driver)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 sql.DB 连接失败 (驱动: %s): %w", driverName, err)
	}

	// 设置连接池参数
	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通数据库 (驱动: %s, 主机: %s:%s): %w", driverName, dbHost, dbPort, err)
	}

	log.Printf("✅ %s 数据库连接池创建成功！\n", driver)
	return db, nil
}

// OpenSQLite 打开一个启用外键约束的 SQLite 数据库文件。
// SQLite 同一时间只允许一个写事务，这里把连接池限制为单连接，避免事务之间出现 SQLITE_BUSY。
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("打开 sql.DB 连接失败 (驱动: sqlite3): %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("无法 Ping 通 SQLite 数据库 (%s): %w", path, err)
	}
	log.Println("✅ Sqlite 数据库连接池创建成功！")
	return db, nil
}

// DialectFor 把配置中的数据库类型映射为 ent 方言名
func DialectFor(dbType string) (string, error) {
	switch dbType {
	case "mysql", "mariadb":
		return dialect.MySQL, nil
	case "postgres", "pgx":
		return dialect.Postgres, nil
	case "", "sqlite", "sqlite3":
		return dialect.SQLite, nil
	default:
		return "", fmt.Errorf("不支持的 Ent 方言: %s", dbType)
	}
}

// NewDriver 根据配置创建 ent 的 SQL 驱动，并在启动时自动迁移表结构。
func NewDriver(db *sql.DB, cfg *config.Config) (dialect.Driver, error) {
	dialectName, err := DialectFor(cfg.GetString(config.KeyDBType))
	if err != nil {
		return nil, err
	}

	var drv dialect.Driver = entsql.OpenDB(dialectName, db)

	if err := Migrate(context.Background(), drv); err != nil {
		return nil, err
	}

	// 根据配置决定是否打印 SQL
	if cfg.GetBool(config.KeyDBDebug) {
		drv = dialect.Debug(drv)
		log.Println("【数据库】Ent Debug模式已开启，将打印所有执行的SQL语句。")
	}

	log.Println("✅ Ent 驱动初始化成功！")
	return drv, nil
}
