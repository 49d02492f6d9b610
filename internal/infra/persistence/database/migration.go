/*
 * @Description: 表结构定义与自动迁移
 * @Author: 安知鱼
 * @Date: 2025-10-21 13:12:09
 * @LastEditTime: 2025-10-21 13:20:37
 * @LastEditors: 安知鱼
 */
package database

import (
	"context"
	"fmt"
	"log"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// 表名与列名，仓储层构造 SQL 时共用
const (
	UsersTableName            = "users"
	ArticlesTableName         = "articles"
	CategoriesTableName       = "categories"
	CategoryArticlesTableName = "category_articles"
)

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 100},
		{Name: "email", Type: field.TypeString, Unique: true, Size: 255},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       UsersTableName,
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// ArticlesColumns holds the columns for the "articles" table.
	ArticlesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "title", Type: field.TypeString, Size: 255},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "upvotes", Type: field.TypeInt, Default: 0},
		{Name: "author_id", Type: field.TypeInt},
	}
	// ArticlesTable holds the schema information for the "articles" table.
	// author_id 不级联：删除仍有文章的用户会被外键拒绝，必须先转移或删除其文章。
	ArticlesTable = &schema.Table{
		Name:       ArticlesTableName,
		Columns:    ArticlesColumns,
		PrimaryKey: []*schema.Column{ArticlesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "articles_users_articles",
				Columns:    []*schema.Column{ArticlesColumns[4]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.NoAction,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "article_author_id",
				Unique:  false,
				Columns: []*schema.Column{ArticlesColumns[4]},
			},
			{
				Name:    "article_upvotes",
				Unique:  false,
				Columns: []*schema.Column{ArticlesColumns[3]},
			},
		},
	}

	// CategoriesColumns holds the columns for the "categories" table.
	// name 故意不加唯一约束，同名分类由合并流程处理。
	CategoriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 100},
	}
	// CategoriesTable holds the schema information for the "categories" table.
	CategoriesTable = &schema.Table{
		Name:       CategoriesTableName,
		Columns:    CategoriesColumns,
		PrimaryKey: []*schema.Column{CategoriesColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "category_name",
				Unique:  false,
				Columns: []*schema.Column{CategoriesColumns[1]},
			},
		},
	}

	// CategoryArticlesColumns holds the columns for the "category_articles" table.
	CategoryArticlesColumns = []*schema.Column{
		{Name: "category_id", Type: field.TypeInt},
		{Name: "article_id", Type: field.TypeInt},
	}
	// CategoryArticlesTable holds the schema information for the "category_articles" table.
	CategoryArticlesTable = &schema.Table{
		Name:       CategoryArticlesTableName,
		Columns:    CategoryArticlesColumns,
		PrimaryKey: []*schema.Column{CategoryArticlesColumns[0], CategoryArticlesColumns[1]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "category_articles_category_id",
				Columns:    []*schema.Column{CategoryArticlesColumns[0]},
				RefColumns: []*schema.Column{CategoriesColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "category_articles_article_id",
				Columns:    []*schema.Column{CategoryArticlesColumns[1]},
				RefColumns: []*schema.Column{ArticlesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		ArticlesTable,
		CategoriesTable,
		CategoryArticlesTable,
	}
)

func init() {
	ArticlesTable.ForeignKeys[0].RefTable = UsersTable
	CategoryArticlesTable.ForeignKeys[0].RefTable = CategoriesTable
	CategoryArticlesTable.ForeignKeys[1].RefTable = ArticlesTable
}

// Migrate 在给定驱动上创建或更新全部表结构
func Migrate(ctx context.Context, drv dialect.Driver) error {
	log.Println("⚡ 开始数据库表结构迁移...")
	m, err := schema.NewMigrate(drv,
		schema.WithDropIndex(true),  // 允许删除旧索引
		schema.WithDropColumn(true), // 允许删除旧列
		schema.WithForeignKeys(true),
	)
	if err != nil {
		return fmt.Errorf("创建迁移器失败: %w", err)
	}
	if err := m.Create(ctx, Tables...); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}
	log.Println("✅ 数据库表结构迁移成功")
	return nil
}
