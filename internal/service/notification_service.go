package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/nsxzhou1114/notification-api/internal/config"
	"github.com/nsxzhou1114/notification-api/internal/database"
	"github.com/nsxzhou1114/notification-api/internal/dto"
	"github.com/nsxzhou1114/notification-api/internal/logger"
	"github.com/nsxzhou1114/notification-api/internal/model"
	"github.com/nsxzhou1114/notification-api/internal/repository"
	"github.com/nsxzhou1114/notification-api/pkg/pagination"
	"github.com/nsxzhou1114/notification-api/pkg/serialization"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	// ErrNotFound 通知不存在或不可见
	ErrNotFound = errors.New("通知不存在")
	// ErrPermissionDenied 没有操作权限
	ErrPermissionDenied = errors.New("没有操作权限")

	notificationService     *NotificationService
	notificationServiceOnce sync.Once
)

const unseenCountCacheTTL = time.Minute

// NotificationService 通知业务逻辑层
type NotificationService struct {
	repo   *repository.NotificationRepository
	redis  *redis.Client
	logger *zap.Logger
}

// GetNotificationService 获取通知服务单例
func GetNotificationService() *NotificationService {
	notificationServiceOnce.Do(func() {
		notificationService = &NotificationService{
			repo:   repository.NewNotificationRepository(database.GetDB()),
			redis:  database.GetRedis(),
			logger: logger.GetLogger(),
		}
	})
	return notificationService
}

// NewNotificationService 创建通知服务实例，测试时注入依赖
func NewNotificationService(repo *repository.NotificationRepository, rdb *redis.Client, log *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, redis: rdb, logger: log}
}

// ---- 查询参数组装 ----

// buildQueryOptions 将请求参数转换为数据层查询选项
func buildQueryOptions(req *dto.NotificationListRequest) (repository.QueryOptions, pagination.Params) {
	cfg := config.GetConfig().Notification

	params := pagination.Parse(req.Limit, req.Offset, pagination.Bounds{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MinLimit:     cfg.Pagination.MinLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})

	return repository.QueryOptions{
		Status:         req.Status,
		Public:         req.Public,
		RecipientID:    req.RecipientID,
		GroupID:        req.GroupID,
		TimestampFrom:  req.TimestampFrom,
		TimestampTo:    req.TimestampTo,
		Search:         req.Search,
		SearchFields:   cfg.SearchFields,
		Ordering:       req.Ordering,
		OrderingFields: cfg.OrderingFields,
		Limit:          params.Limit,
		Offset:         params.Offset,
	}, params
}

// ---- 序列化 ----

// useFullDetails 决定使用完整视图还是精简视图
func useFullDetails(viewer repository.Viewer) bool {
	return viewer.IsAdmin || config.GetConfig().Notification.IncludeSerializerFullDetails
}

func toUserBriefs(users []model.User) []dto.UserBrief {
	briefs := make([]dto.UserBrief, 0, len(users))
	for _, user := range users {
		briefs = append(briefs, dto.UserBrief{ID: user.ID, Username: user.Username})
	}
	return briefs
}

func toGroupBriefs(groups []model.Group) []dto.GroupBrief {
	briefs := make([]dto.GroupBrief, 0, len(groups))
	for _, group := range groups {
		briefs = append(briefs, dto.GroupBrief{ID: group.ID, Name: group.Name})
	}
	return briefs
}

// serializeOne 序列化单条通知
// 精简视图只保留基础展示字段，完整视图附带关联数据
func serializeOne(notification *model.Notification, full bool, relations *repository.Relations) any {
	title := serialization.GenerateTitle(notification.DescriptionText(), notification.Timestamp)

	if !full {
		view := dto.NotificationSimpleResponse{
			ID:          notification.ID,
			Title:       title,
			Description: notification.Description,
			Status:      notification.Status,
			Link:        notification.Link,
			Timestamp:   notification.Timestamp,
		}
		return applyFieldFilter(view)
	}

	view := dto.NotificationFullResponse{
		ID:               notification.ID,
		Title:            title,
		Verb:             notification.Verb,
		Description:      notification.Description,
		Status:           notification.Status,
		ActorType:        notification.ActorType,
		ActorID:          notification.ActorID,
		TargetType:       notification.TargetType,
		TargetID:         notification.TargetID,
		ActionObjectType: notification.ActionObjectType,
		ActionObjectID:   notification.ActionObjectID,
		Link:             notification.Link,
		IsSent:           notification.IsSent,
		Public:           notification.Public,
		Data:             notification.Data,
		Timestamp:        notification.Timestamp,
	}
	if relations != nil {
		view.Recipients = toUserBriefs(relations.Recipients[notification.ID])
		view.Groups = toGroupBriefs(relations.Groups[notification.ID])
		view.SeenBy = toUserBriefs(relations.SeenBy[notification.ID])
	}
	return applyFieldFilter(view)
}

// applyFieldFilter 按配置剔除响应中的空字段
func applyFieldFilter(view any) any {
	if !config.GetConfig().Notification.ExcludeSerializerNoneFields {
		return view
	}

	raw, err := json.Marshal(view)
	if err != nil {
		return view
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return view
	}
	return serialization.FilterNonEmptyFields(fields)
}

// serializeList 序列化通知列表，完整视图时批量加载关联数据
func (s *NotificationService) serializeList(notifications []model.Notification, full bool) ([]any, error) {
	var relations *repository.Relations
	if full {
		var err error
		relations, err = s.repo.LoadRelations(notifications)
		if err != nil {
			return nil, err
		}
	}

	views := make([]any, 0, len(notifications))
	for i := range notifications {
		views = append(views, serializeOne(&notifications[i], full, relations))
	}
	return views, nil
}

// ---- 用户端操作 ----

// ListUnseen 查询未读通知列表
func (s *NotificationService) ListUnseen(viewer repository.Viewer, req *dto.NotificationListRequest) ([]any, pagination.Params, int64, error) {
	opts, params := buildQueryOptions(req)
	notifications, total, err := s.repo.Unseen(viewer, opts)
	if err != nil {
		return nil, params, 0, err
	}
	views, err := s.serializeList(notifications, useFullDetails(viewer))
	return views, params, total, err
}

// RetrieveUnseen 查看单条未读通知并标记为已读
func (s *NotificationService) RetrieveUnseen(ctx context.Context, viewer repository.Viewer, id uint) (any, error) {
	notification, err := s.repo.GetUnseenByID(viewer, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkAsSeen(viewer.ID, notification.ID); err != nil {
		return nil, err
	}
	s.invalidateUnseenCount(ctx, viewer.ID)

	full := useFullDetails(viewer)
	var relations *repository.Relations
	if full {
		relations, err = s.repo.LoadRelations([]model.Notification{*notification})
		if err != nil {
			return nil, err
		}
	}
	return serializeOne(notification, full, relations), nil
}

// MarkAllAsSeen 标记全部未读通知为已读，返回标记数量
func (s *NotificationService) MarkAllAsSeen(ctx context.Context, viewer repository.Viewer) (int64, error) {
	count, err := s.repo.MarkAllAsSeen(viewer)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateUnseenCount(ctx, viewer.ID)
	}
	return count, nil
}

// ListSeen 查询已读通知列表
func (s *NotificationService) ListSeen(viewer repository.Viewer, req *dto.NotificationListRequest) ([]any, pagination.Params, int64, error) {
	opts, params := buildQueryOptions(req)
	notifications, total, err := s.repo.Seen(viewer, opts)
	if err != nil {
		return nil, params, 0, err
	}
	views, err := s.serializeList(notifications, useFullDetails(viewer))
	return views, params, total, err
}

// RetrieveSeen 查看单条已读通知
func (s *NotificationService) RetrieveSeen(viewer repository.Viewer, id uint) (any, error) {
	notification, err := s.repo.GetSeenByID(viewer, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	full := useFullDetails(viewer)
	var relations *repository.Relations
	if full {
		relations, err = s.repo.LoadRelations([]model.Notification{*notification})
		if err != nil {
			return nil, err
		}
	}
	return serializeOne(notification, full, relations), nil
}

// ClearAll 软删除全部已读通知
func (s *NotificationService) ClearAll(viewer repository.Viewer) error {
	count, err := s.repo.ClearAll(viewer)
	if err != nil {
		return err
	}
	s.logger.Info("清除通知",
		zap.Uint("user_id", viewer.ID),
		zap.Int64("count", count),
	)
	return nil
}

// ClearOne 软删除单条通知
func (s *NotificationService) ClearOne(viewer repository.Viewer, id uint) error {
	err := s.repo.SoftDelete(viewer, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// DeleteAll 物理删除全部已读通知，仅限管理员
func (s *NotificationService) DeleteAll(viewer repository.Viewer) error {
	if !viewer.IsAdmin {
		return ErrPermissionDenied
	}
	count, err := s.repo.HardDeleteAll(viewer)
	if err != nil {
		return err
	}
	s.logger.Info("物理删除通知",
		zap.Uint("user_id", viewer.ID),
		zap.Int64("count", count),
	)
	return nil
}

// DeleteOne 物理删除单条通知，仅限管理员
func (s *NotificationService) DeleteOne(viewer repository.Viewer, id uint) error {
	if !viewer.IsAdmin {
		return ErrPermissionDenied
	}
	err := s.repo.HardDelete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// UnseenCount 获取未读通知数量，结果短暂缓存
func (s *NotificationService) UnseenCount(ctx context.Context, viewer repository.Viewer) (int64, error) {
	key := unseenCountKey(viewer.ID)

	cached, err := s.redis.Get(ctx, key).Result()
	if err == nil {
		if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
			return count, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("读取未读数缓存失败", zap.Error(err))
	}

	count, err := s.repo.UnseenCount(viewer)
	if err != nil {
		return 0, err
	}

	if err := s.redis.Set(ctx, key, count, unseenCountCacheTTL).Err(); err != nil {
		s.logger.Warn("写入未读数缓存失败", zap.Error(err))
	}
	return count, nil
}

func unseenCountKey(userID uint) string {
	return fmt.Sprintf("notification:unseen_count:%d", userID)
}

// invalidateUnseenCount 未读状态变化后清除缓存
func (s *NotificationService) invalidateUnseenCount(ctx context.Context, userID uint) {
	if err := s.redis.Del(ctx, unseenCountKey(userID)).Err(); err != nil {
		s.logger.Warn("清除未读数缓存失败", zap.Error(err))
	}
}

// ---- 管理端操作 ----

// Create 创建通知
func (s *NotificationService) Create(req *dto.NotificationCreateRequest) (any, error) {
	status := req.Status
	if status == "" {
		status = model.StatusInfo
	}
	public := true
	if req.Public != nil {
		public = *req.Public
	}

	notification := &model.Notification{
		Verb:             req.Verb,
		Description:      req.Description,
		Status:           status,
		ActorType:        req.ActorType,
		ActorID:          req.ActorID,
		TargetType:       req.TargetType,
		TargetID:         req.TargetID,
		ActionObjectType: req.ActionObjectType,
		ActionObjectID:   req.ActionObjectID,
		Link:             req.Link,
		IsSent:           req.IsSent,
		Public:           public,
		Data:             req.Data,
	}

	if err := s.repo.Create(notification, req.RecipientIDs, req.GroupIDs); err != nil {
		return nil, err
	}

	s.logger.Info("创建通知",
		zap.Uint("notification_id", notification.ID),
		zap.String("verb", notification.Verb),
	)

	relations, err := s.repo.LoadRelations([]model.Notification{*notification})
	if err != nil {
		return nil, err
	}
	return serializeOne(notification, true, relations), nil
}

// Update 更新通知的发送与公开状态
func (s *NotificationService) Update(id uint, req *dto.NotificationUpdateRequest) (any, error) {
	notification, err := s.repo.Update(id, req.IsSent, req.Public, req.Data)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	relations, err := s.repo.LoadRelations([]model.Notification{*notification})
	if err != nil {
		return nil, err
	}
	return serializeOne(notification, true, relations), nil
}

// AdminList 查询全部通知，管理端列表
// 搜索按通知ID、接收人用户名或用户组名匹配
func (s *NotificationService) AdminList(req *dto.NotificationListRequest) ([]any, pagination.Params, int64, error) {
	opts, params := buildQueryOptions(req)
	notifications, total, err := s.repo.All(opts)
	if err != nil {
		return nil, params, 0, err
	}
	views, err := s.serializeList(notifications, true)
	return views, params, total, err
}

// AdminUnsent 查询尚未发送的通知，管理端列表
func (s *NotificationService) AdminUnsent(req *dto.NotificationListRequest) ([]any, pagination.Params, int64, error) {
	opts, params := buildQueryOptions(req)
	notifications, total, err := s.repo.Unsent(repository.Viewer{IsAdmin: true}, opts)
	if err != nil {
		return nil, params, 0, err
	}
	views, err := s.serializeList(notifications, true)
	return views, params, total, err
}

// DeletedList 查询软删除审计记录，管理端列表
func (s *NotificationService) DeletedList(req *dto.DeletedListRequest) ([]repository.DeletedRecord, pagination.Params, int64, error) {
	cfg := config.GetConfig().Notification
	params := pagination.Parse(req.Limit, req.Offset, pagination.Bounds{
		DefaultLimit: cfg.AdminListPerPage,
		MinLimit:     cfg.Pagination.MinLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})

	records, total, err := s.repo.Deleted(req.UserID, req.Search, params.Limit, params.Offset)
	return records, params, total, err
}

// MarkAsSent 批量标记通知为已发送，返回更新数量
func (s *NotificationService) MarkAsSent(req *dto.MarkAsSentRequest) (int64, error) {
	count, err := s.repo.MarkAllAsSent(req.RecipientIDs, req.GroupIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Info("批量标记通知已发送", zap.Int64("count", count))
	return count, nil
}

// Stats 并发统计各项计数
func (s *NotificationService) Stats(ctx context.Context) (*dto.NotificationStatsResponse, error) {
	stats := &dto.NotificationStatsResponse{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.Total, err = s.repo.CountNotifications()
		return err
	})
	g.Go(func() error {
		var err error
		stats.Sent, err = s.repo.CountSent()
		return err
	})
	g.Go(func() error {
		var err error
		stats.Seen, err = s.repo.CountSeenRecords()
		return err
	})
	g.Go(func() error {
		var err error
		stats.Deleted, err = s.repo.CountDeletedRecords()
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
