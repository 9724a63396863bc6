package repository

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/nsxzhou1114/notification-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository 通知数据访问层
// 所有查询都是对通知表的过滤条件组合：可见性、已发送、已查看、软删除排除
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知数据访问层实例
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// ---- 子查询 ----

// deletedBy 某用户软删除的通知ID集合
func (r *NotificationRepository) deletedBy(userID uint) *gorm.DB {
	return r.db.Model(&model.DeletedNotification{}).
		Select("notification_id").
		Where("user_id = ?", userID)
}

// seenBy 某用户已查看的通知ID集合
func (r *NotificationRepository) seenBy(userID uint) *gorm.DB {
	return r.db.Model(&model.NotificationSeen{}).
		Select("notification_id").
		Where("user_id = ?", userID)
}

// recipientOf 某用户作为接收人的通知ID集合
func (r *NotificationRepository) recipientOf(userID uint) *gorm.DB {
	return r.db.Model(&model.NotificationRecipient{}).
		Select("notification_id").
		Where("recipient_id = ?", userID)
}

// groupNotificationsOf 某用户通过用户组接收的通知ID集合
func (r *NotificationRepository) groupNotificationsOf(userID uint) *gorm.DB {
	groups := r.db.Model(&model.UserGroup{}).
		Select("group_id").
		Where("user_id = ?", userID)
	return r.db.Model(&model.NotificationGroup{}).
		Select("notification_id").
		Where("group_id IN (?)", groups)
}

// ---- 基础查询组合 ----

func (r *NotificationRepository) base() *gorm.DB {
	return r.db.Model(&model.Notification{})
}

// visible 限制为viewer可见的通知，管理员不受限制
func (r *NotificationRepository) visible(query *gorm.DB, viewer Viewer) *gorm.DB {
	if viewer.IsAdmin {
		return query
	}
	return query.Where(
		r.db.Where("id IN (?)", r.recipientOf(viewer.ID)).
			Or("id IN (?)", r.groupNotificationsOf(viewer.ID)),
	)
}

// sent 已发送的可见通知，excludeDeleted时排除viewer软删除的记录
func (r *NotificationRepository) sent(viewer Viewer, excludeDeleted bool) *gorm.DB {
	query := r.visible(r.base().Where("is_sent = ?", true), viewer)
	if excludeDeleted {
		query = query.Where("id NOT IN (?)", r.deletedBy(viewer.ID))
	}
	return query
}

// unsent 未发送的可见通知
func (r *NotificationRepository) unsent(viewer Viewer, excludeDeleted bool) *gorm.DB {
	query := r.visible(r.base().Where("is_sent = ?", false), viewer)
	if excludeDeleted {
		query = query.Where("id NOT IN (?)", r.deletedBy(viewer.ID))
	}
	return query
}

// unseen 已发送但viewer尚未查看的通知
func (r *NotificationRepository) unseen(viewer Viewer) *gorm.DB {
	return r.sent(viewer, true).Where("id NOT IN (?)", r.seenBy(viewer.ID))
}

// seen 已发送且viewer已查看的通知
func (r *NotificationRepository) seen(viewer Viewer) *gorm.DB {
	return r.sent(viewer, true).Where("id IN (?)", r.seenBy(viewer.ID))
}

// ---- 过滤、搜索与分页 ----

func (r *NotificationRepository) applyFilters(query *gorm.DB, opts QueryOptions) *gorm.DB {
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Public != nil {
		query = query.Where("public = ?", *opts.Public)
	}
	if opts.RecipientID != 0 {
		sub := r.db.Model(&model.NotificationRecipient{}).
			Select("notification_id").
			Where("recipient_id = ?", opts.RecipientID)
		query = query.Where("id IN (?)", sub)
	}
	if opts.GroupID != 0 {
		sub := r.db.Model(&model.NotificationGroup{}).
			Select("notification_id").
			Where("group_id = ?", opts.GroupID)
		query = query.Where("id IN (?)", sub)
	}
	if opts.TimestampFrom != nil {
		query = query.Where("timestamp >= ?", *opts.TimestampFrom)
	}
	if opts.TimestampTo != nil {
		query = query.Where("timestamp <= ?", *opts.TimestampTo)
	}
	if opts.Search != "" && len(opts.SearchFields) > 0 {
		like := "%" + opts.Search + "%"
		cond := r.db.Where(opts.SearchFields[0]+" LIKE ?", like)
		for _, field := range opts.SearchFields[1:] {
			cond = cond.Or(field + " LIKE ?", like)
		}
		query = query.Where(cond)
	}
	return query
}

// findPage 统计总数并返回一页数据
func (r *NotificationRepository) findPage(query *gorm.DB, opts QueryOptions) ([]model.Notification, int64, error) {
	query = r.applyFilters(query, opts)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	ordering, err := BuildOrdering(opts.Ordering, opts.OrderingFields)
	if err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	err = query.Order(ordering).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// ---- 查询操作 ----

// Unseen 查询viewer未查看的已发送通知
func (r *NotificationRepository) Unseen(viewer Viewer, opts QueryOptions) ([]model.Notification, int64, error) {
	return r.findPage(r.unseen(viewer), opts)
}

// Seen 查询viewer已查看的已发送通知
func (r *NotificationRepository) Seen(viewer Viewer, opts QueryOptions) ([]model.Notification, int64, error) {
	return r.findPage(r.seen(viewer), opts)
}

// All 查询全部通知，供管理端使用
// 搜索词为数字时按通知ID精确匹配，否则按接收人用户名或用户组名模糊匹配
func (r *NotificationRepository) All(opts QueryOptions) ([]model.Notification, int64, error) {
	query := r.applyAdminSearch(r.base(), opts.Search)
	opts.Search = ""
	return r.findPage(query, opts)
}

// Unsent 查询尚未发送的通知，供管理端检查投递积压
func (r *NotificationRepository) Unsent(viewer Viewer, opts QueryOptions) ([]model.Notification, int64, error) {
	return r.findPage(r.unsent(viewer, !viewer.IsAdmin), opts)
}

// applyAdminSearch 管理端搜索：数字匹配通知ID，字符串匹配接收人用户名或用户组名
func (r *NotificationRepository) applyAdminSearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	if id, err := strconv.ParseUint(search, 10, 32); err == nil {
		return query.Where("id = ?", uint(id))
	}

	like := "%" + search + "%"
	users := r.db.Model(&model.User{}).Select("id").Where("username LIKE ?", like)
	byRecipient := r.db.Model(&model.NotificationRecipient{}).
		Select("notification_id").
		Where("recipient_id IN (?)", users)
	groups := r.db.Model(&model.Group{}).Select("id").Where("name LIKE ?", like)
	byGroup := r.db.Model(&model.NotificationGroup{}).
		Select("notification_id").
		Where("group_id IN (?)", groups)
	return query.Where(
		r.db.Where("id IN (?)", byRecipient).Or("id IN (?)", byGroup),
	)
}

// GetUnseenByID 按ID获取viewer未查看的通知
func (r *NotificationRepository) GetUnseenByID(viewer Viewer, id uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.unseen(viewer).Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetSeenByID 按ID获取viewer已查看的通知
func (r *NotificationRepository) GetSeenByID(viewer Viewer, id uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.seen(viewer).Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// GetByID 按ID获取通知，不做可见性限制
func (r *NotificationRepository) GetByID(id uint) (*model.Notification, error) {
	var notification model.Notification
	err := r.base().Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// UnseenCount 统计viewer未查看的通知数量
func (r *NotificationRepository) UnseenCount(viewer Viewer) (int64, error) {
	var count int64
	err := r.unseen(viewer).Count(&count).Error
	return count, err
}

// ---- 变更操作 ----

// MarkAsSeen 标记单条通知为已查看，重复标记不报错
func (r *NotificationRepository) MarkAsSeen(userID, notificationID uint) error {
	row := model.NotificationSeen{
		NotificationID: notificationID,
		UserID:         userID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// MarkAllAsSeen 将viewer所有未查看的通知标记为已查看，返回标记数量
// 幂等：第二次调用不会产生新的查看记录
func (r *NotificationRepository) MarkAllAsSeen(viewer Viewer) (int64, error) {
	var ids []uint
	if err := r.unseen(viewer).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]model.NotificationSeen, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.NotificationSeen{
			NotificationID: id,
			UserID:         viewer.ID,
		})
	}

	// 冲突跳过的行不计入，返回实际新增的查看记录数
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 500)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MarkAllAsSent 将未发送通知批量标记为已发送，可按接收人或用户组过滤，返回更新数量
func (r *NotificationRepository) MarkAllAsSent(recipientIDs, groupIDs []uint) (int64, error) {
	query := r.base().Where("is_sent = ?", false)
	if len(recipientIDs) > 0 {
		sub := r.db.Model(&model.NotificationRecipient{}).
			Select("notification_id").
			Where("recipient_id IN ?", recipientIDs)
		query = query.Where("id IN (?)", sub)
	}
	if len(groupIDs) > 0 {
		sub := r.db.Model(&model.NotificationGroup{}).
			Select("notification_id").
			Where("group_id IN ?", groupIDs)
		query = query.Where("id IN (?)", sub)
	}

	result := query.Update("is_sent", true)
	return result.RowsAffected, result.Error
}

// ClearAll 软删除viewer已查看的全部通知，返回删除数量
func (r *NotificationRepository) ClearAll(viewer Viewer) (int64, error) {
	var ids []uint
	if err := r.seen(viewer).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	rows := make([]model.DeletedNotification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, model.DeletedNotification{
			NotificationID: id,
			UserID:         viewer.ID,
		})
	}

	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 500)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// SoftDelete 为viewer软删除一条通知
// 通知必须是viewer可见且未被其软删除的已发送通知，否则返回gorm.ErrRecordNotFound
func (r *NotificationRepository) SoftDelete(viewer Viewer, notificationID uint) error {
	var notification model.Notification
	err := r.sent(viewer, true).Where("id = ?", notificationID).First(&notification).Error
	if err != nil {
		return err
	}

	row := model.DeletedNotification{
		NotificationID: notification.ID,
		UserID:         viewer.ID,
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// HardDelete 物理删除一条通知及其关联记录
func (r *NotificationRepository) HardDelete(notificationID uint) error {
	var notification model.Notification
	if err := r.base().Where("id = ?", notificationID).First(&notification).Error; err != nil {
		return err
	}
	return r.hardDeleteIDs([]uint{notificationID})
}

// HardDeleteAll 物理删除viewer可见的全部已查看通知，返回删除数量
func (r *NotificationRepository) HardDeleteAll(viewer Viewer) (int64, error) {
	var ids []uint
	if err := r.seen(viewer).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.hardDeleteIDs(ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// hardDeleteIDs 在事务内删除通知行及其全部关联
func (r *NotificationRepository) hardDeleteIDs(ids []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.NotificationRecipient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.NotificationGroup{}).Error; err != nil {
			return err
		}
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.NotificationSeen{}).Error; err != nil {
			return err
		}
		if err := tx.Where("notification_id IN ?", ids).Delete(&model.DeletedNotification{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&model.Notification{}).Error
	})
}

// Create 创建通知并写入接收人和用户组关联
func (r *NotificationRepository) Create(notification *model.Notification, recipientIDs, groupIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(notification).Error; err != nil {
			return err
		}

		for _, recipientID := range recipientIDs {
			row := model.NotificationRecipient{
				NotificationID: notification.ID,
				RecipientID:    recipientID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		for _, groupID := range groupIDs {
			row := model.NotificationGroup{
				NotificationID: notification.ID,
				GroupID:        groupID,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update 选择性更新通知的is_sent、public和data字段
func (r *NotificationRepository) Update(notificationID uint, isSent, public *bool, data json.RawMessage) (*model.Notification, error) {
	notification, err := r.GetByID(notificationID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if isSent != nil {
		updates["is_sent"] = *isSent
	}
	if public != nil {
		updates["public"] = *public
	}
	if data != nil {
		updates["data"] = data
	}

	if len(updates) > 0 {
		if err := r.db.Model(notification).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return notification, nil
}

// ---- 软删除记录查询（管理端） ----

// DeletedRecord 软删除审计记录
type DeletedRecord struct {
	NotificationID uint      `json:"notification_id"`
	Description    *string   `json:"description"`
	Timestamp      time.Time `json:"timestamp"`
	UserID         uint      `json:"user_id"`
	Username       string    `json:"username"`
	DeletedAt      time.Time `json:"deleted_at"`
}

// Deleted 查询软删除记录
// 搜索词为数字时按通知ID精确匹配，为字符串时按用户名模糊匹配
func (r *NotificationRepository) Deleted(userID uint, search string, limit, offset int) ([]DeletedRecord, int64, error) {
	query := r.db.Table("deleted_notifications AS d").
		Joins("JOIN notification AS n ON n.id = d.notification_id").
		Joins("JOIN users AS u ON u.id = d.user_id")

	if userID != 0 {
		query = query.Where("d.user_id = ?", userID)
	}
	if search != "" {
		if id, err := strconv.ParseUint(search, 10, 32); err == nil {
			query = query.Where("d.notification_id = ?", uint(id))
		} else {
			query = query.Where("u.username LIKE ?", "%"+search+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []DeletedRecord
	err := query.Select("d.notification_id, n.description, n.timestamp, d.user_id, u.username, d.deleted_at").
		Order("d.deleted_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ---- 关联加载 ----

// Relations 通知的接收人、用户组和查看人集合
type Relations struct {
	Recipients map[uint][]model.User
	Groups     map[uint][]model.Group
	SeenBy     map[uint][]model.User
}

type relatedUser struct {
	model.User
	NotificationID uint
}

type relatedGroup struct {
	model.Group
	NotificationID uint
}

// LoadRelations 批量加载一组通知的关联数据，避免逐条查询
func (r *NotificationRepository) LoadRelations(notifications []model.Notification) (*Relations, error) {
	relations := &Relations{
		Recipients: make(map[uint][]model.User),
		Groups:     make(map[uint][]model.Group),
		SeenBy:     make(map[uint][]model.User),
	}
	if len(notifications) == 0 {
		return relations, nil
	}

	ids := make([]uint, 0, len(notifications))
	for _, notification := range notifications {
		ids = append(ids, notification.ID)
	}

	var recipients []relatedUser
	err := r.db.Table("users").
		Select("users.*, nr.notification_id").
		Joins("JOIN notification_recipient AS nr ON nr.recipient_id = users.id").
		Where("nr.notification_id IN ?", ids).
		Scan(&recipients).Error
	if err != nil {
		return nil, err
	}
	for _, row := range recipients {
		relations.Recipients[row.NotificationID] = append(relations.Recipients[row.NotificationID], row.User)
	}

	var groups []relatedGroup
	err = r.db.Table("groups").
		Select("groups.*, ng.notification_id").
		Joins("JOIN notification_group AS ng ON ng.group_id = groups.id").
		Where("ng.notification_id IN ?", ids).
		Scan(&groups).Error
	if err != nil {
		return nil, err
	}
	for _, row := range groups {
		relations.Groups[row.NotificationID] = append(relations.Groups[row.NotificationID], row.Group)
	}

	var seenBy []relatedUser
	err = r.db.Table("users").
		Select("users.*, ns.notification_id").
		Joins("JOIN notification_seen AS ns ON ns.user_id = users.id").
		Where("ns.notification_id IN ?", ids).
		Scan(&seenBy).Error
	if err != nil {
		return nil, err
	}
	for _, row := range seenBy {
		relations.SeenBy[row.NotificationID] = append(relations.SeenBy[row.NotificationID], row.User)
	}

	return relations, nil
}

// ---- 统计 ----

// CountNotifications 统计通知总数
func (r *NotificationRepository) CountNotifications() (int64, error) {
	var count int64
	err := r.base().Count(&count).Error
	return count, err
}

// CountSent 统计已发送通知数
func (r *NotificationRepository) CountSent() (int64, error) {
	var count int64
	err := r.base().Where("is_sent = ?", true).Count(&count).Error
	return count, err
}

// CountSeenRecords 统计查看记录数
func (r *NotificationRepository) CountSeenRecords() (int64, error) {
	var count int64
	err := r.db.Model(&model.NotificationSeen{}).Count(&count).Error
	return count, err
}

// CountDeletedRecords 统计软删除记录数
func (r *NotificationRepository) CountDeletedRecords() (int64, error) {
	var count int64
	err := r.db.Model(&model.DeletedNotification{}).Count(&count).Error
	return count, err
}

// ---- 过期清理 ----

// PurgeExpired 物理删除已过期且所有接收人都已软删除的通知，返回清理数量
// 仍有任何接收人未软删除的通知不会被清理，保证按用户隔离的可见性不受影响
func (r *NotificationRepository) PurgeExpired(cutoff time.Time) (int64, error) {
	var ids []uint
	err := r.db.Raw(`
		SELECT n.id FROM notification n
		WHERE n.timestamp < ?
		  AND EXISTS (
			SELECT 1 FROM notification_recipient nr
			WHERE nr.notification_id = n.id
		  )
		  AND NOT EXISTS (
			SELECT 1 FROM notification_recipient nr
			WHERE nr.notification_id = n.id
			  AND NOT EXISTS (
				SELECT 1 FROM deleted_notifications d
				WHERE d.notification_id = n.id AND d.user_id = nr.recipient_id
			  )
		  )`, cutoff).Scan(&ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	if err := r.hardDeleteIDs(ids); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}
