/*
 * @Description: 数据维护命令
 * @Author: 安知鱼
 * @Date: 2025-10-23 09:41:18
 * @LastEditTime: 2025-10-23 11:12:36
 * @LastEditors: 安知鱼
 */
package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	article_service "github.com/anzhiyu-c/anheyu-press/pkg/service/article"
	category_service "github.com/anzhiyu-c/anheyu-press/pkg/service/category"
	user_service "github.com/anzhiyu-c/anheyu-press/pkg/service/user"
)

func newMergeCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "merge-categories",
		Short: "合并同名分类，每组保留 ID 最小的分类",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			report, err := category_service.NewService(s.txManager, nil).MergeCategories(cmd.Context())
			if err != nil {
				return err
			}
			if opts.structured() || len(report.Groups) == 0 {
				return render(cmd.OutOrStdout(), opts, report, "没有需要合并的同名分类")
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSURVIVOR\tREMOVED")
			for _, g := range report.Groups {
				fmt.Fprintf(w, "%s\t%d\t%s\n", g.Name, g.SurvivorID, joinIDs(g.DuplicateIDs))
			}
			fmt.Fprintf(w, "\n共转移 %d 条文章关联\n", report.RelinkedArticles)
			return w.Flush()
		},
	}
}

func newDeleteCategoryCmd(opts *options) *cobra.Command {
	var id uint
	cmd := &cobra.Command{
		Use:   "delete-category",
		Short: "删除分类及其下的全部文章",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := category_service.NewService(s.txManager, nil).DeleteCategoryWithArticles(cmd.Context(), id); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, map[string]uint{"deletedCategoryId": id}, fmt.Sprintf("已删除分类 %d", id))
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "分类ID")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newPruneArticlesCmd(opts *options) *cobra.Command {
	var threshold int
	cmd := &cobra.Command{
		Use:   "prune-articles",
		Short: "删除赞数低于阈值的文章",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := article_service.NewService(s.txManager, nil).DeleteArticlesBelowUpvoteThreshold(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, result, fmt.Sprintf("已删除 %d 篇赞数低于 %d 的文章", result.DeletedCount, threshold))
		},
	}
	cmd.Flags().IntVar(&threshold, "threshold", 0, "赞数阈值，严格小于该值的文章会被删除")
	_ = cmd.MarkFlagRequired("threshold")
	return cmd
}

func newDeleteArticlesCmd(opts *options) *cobra.Command {
	var ids []uint
	cmd := &cobra.Command{
		Use:   "delete-articles",
		Short: "批量删除文章，任意一篇不存在时不做任何删除",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := article_service.NewService(s.txManager, nil).DeleteArticles(cmd.Context(), ids); err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), opts, model.DeleteArticlesRequest{IDs: ids}, "已删除文章 "+joinIDs(ids))
		},
	}
	cmd.Flags().UintSliceVar(&ids, "ids", nil, "文章ID列表，例如 --ids 1,2,3")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func newDeleteUserCmd(opts *options) *cobra.Command {
	var (
		id        uint
		newAuthor uint
	)
	cmd := &cobra.Command{
		Use:   "delete-user",
		Short: "删除用户，可选把文章转给另一位用户",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(opts)
			if err != nil {
				return err
			}
			defer s.Close()

			var newAuthorID *uint
			if cmd.Flags().Changed("new-author") {
				newAuthorID = &newAuthor
			}

			deleted, err := user_service.NewUserService(s.txManager, nil).DeleteUser(cmd.Context(), id, newAuthorID)
			if err != nil {
				return err
			}

			text := fmt.Sprintf("已删除用户 %d (%s)，其文章已一并删除", deleted.ID, deleted.Name)
			if newAuthorID != nil {
				text = fmt.Sprintf("已删除用户 %d (%s)，其文章已转给用户 %d", deleted.ID, deleted.Name, *newAuthorID)
			}
			return render(cmd.OutOrStdout(), opts, &model.DeleteUserResponse{User: deleted, NewAuthorID: newAuthorID}, text)
		},
	}
	cmd.Flags().UintVar(&id, "id", 0, "要删除的用户ID")
	cmd.Flags().UintVar(&newAuthor, "new-author", 0, "接收文章的用户ID，不指定时删除其全部文章")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func joinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprint(id))
	}
	return strings.Join(parts, ",")
}
