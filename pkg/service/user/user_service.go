/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-06-20 13:27:06
 * @LastEditTime: 2025-10-21 16:32:18
 * @LastEditors: 安知鱼
 */
package user

import (
	"context"
	"fmt"
	"log"

	"github.com/anzhiyu-c/anheyu-press/internal/pkg/event"
	"github.com/anzhiyu-c/anheyu-press/pkg/constant"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/model"
	"github.com/anzhiyu-c/anheyu-press/pkg/domain/repository"
	"github.com/anzhiyu-c/anheyu-press/pkg/service/utility"
)

// UserService 定义了用户相关的业务逻辑接口
type UserService interface {
	// DeleteUser 删除用户并处置其文章：newAuthorID 非 nil 时转给新作者，否则一并删除。
	// 返回被删除用户删除前的信息。
	DeleteUser(ctx context.Context, userID uint, newAuthorID *uint) (*model.User, error)
}

// userService 是 UserService 接口的实现
type userService struct {
	txManager repository.TransactionManager
	publisher event.Publisher
}

// NewUserService 是 userService 的构造函数，publisher 可以为 nil
func NewUserService(txManager repository.TransactionManager, publisher event.Publisher) UserService {
	return &userService{
		txManager: txManager,
		publisher: publisher,
	}
}

func userResource(id uint) string {
	return fmt.Sprintf("用户 %d", id)
}

// DeleteUser 实现了删除账号的业务逻辑。
// 文章的转移或删除与用户行的删除处于同一事务，用户不存在时文章的改动一并回滚。
func (s *userService) DeleteUser(ctx context.Context, userID uint, newAuthorID *uint) (*model.User, error) {
	if newAuthorID != nil && *newAuthorID == userID {
		return nil, fmt.Errorf("%w: 不能把文章转给即将删除的用户自己", constant.ErrBadRequest)
	}

	var (
		deleted     *model.User
		affectedIDs []uint
	)
	err := s.txManager.Do(ctx, func(repos repository.Repositories) error {
		var err error
		affectedIDs, err = repos.Article.FindIDsByAuthor(ctx, userID)
		if err != nil {
			return utility.TranslateStoreError(err, "文章")
		}

		if newAuthorID != nil {
			if _, err := repos.User.FindByID(ctx, *newAuthorID); err != nil {
				return utility.TranslateStoreError(err, "新作者"+userResource(*newAuthorID))
			}
			if _, err := repos.Article.ReassignAuthor(ctx, userID, *newAuthorID); err != nil {
				return utility.TranslateStoreError(err, "新作者"+userResource(*newAuthorID))
			}
		} else {
			if _, err := repos.Article.DeleteByIDs(ctx, affectedIDs); err != nil {
				return utility.TranslateStoreError(err, "文章")
			}
		}

		deleted, err = repos.User.Delete(ctx, userID)
		if err != nil {
			return utility.TranslateStoreError(err, userResource(userID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if newAuthorID != nil {
		log.Printf("[用户] 已删除用户 %d，%d 篇文章转给用户 %d", userID, len(affectedIDs), *newAuthorID)
	} else {
		log.Printf("[用户] 已删除用户 %d 及其 %d 篇文章", userID, len(affectedIDs))
	}

	if s.publisher != nil {
		s.publisher.Publish(event.UserDeleted, &model.UserDeletedEvent{
			User:               *deleted,
			NewAuthorID:        newAuthorID,
			AffectedArticleIDs: affectedIDs,
		})
		if newAuthorID == nil && len(affectedIDs) > 0 {
			s.publisher.Publish(event.ArticlesDeleted, &model.ArticlesDeletedEvent{
				ArticleIDs: affectedIDs,
				Reason:     model.DeleteReasonAuthorDelete,
			})
		}
	}
	return deleted, nil
}
