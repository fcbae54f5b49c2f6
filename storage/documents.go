package storage

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tothemoon023/Capstone-Idencalve2.0/models"
)

// AddDocument records an uploaded document for review. The owner must exist.
func (s *Store) AddDocument(ownerWallet string, doc models.Document) (*models.Document, error) {
	owner, err := s.GetUser(ownerWallet)
	if err != nil {
		return nil, err
	}

	doc.ID = 0
	doc.UserID = owner.ID
	doc.Status = models.DocumentStatusPending
	doc.ReviewedBy = nil
	doc.ReviewedAt = nil
	if err := s.db.Create(&doc).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the owner's documents in insertion order.
func (s *Store) ListDocuments(ownerWallet string) ([]models.Document, error) {
	owner, err := s.GetUser(ownerWallet)
	if err != nil {
		return nil, err
	}

	var docs []models.Document
	if err := s.db.Where("user_id = ?", owner.ID).Order("id ASC").Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// ListDocumentsByStatus returns all documents with the given status, oldest
// first, for the review queue. An empty status returns everything.
func (s *Store) ListDocumentsByStatus(status models.DocumentStatus) ([]models.Document, error) {
	q := s.db.Order("id ASC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var docs []models.Document
	if err := q.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// ReviewDocument records a reviewer's decision. Approving a document promotes
// its owner to verified.
func (s *Store) ReviewDocument(id uint, reviewerID uint, status models.DocumentStatus, notes string) (*models.Document, error) {
	if status != models.DocumentStatusVerified && status != models.DocumentStatusRejected {
		return nil, ErrInvalidStatus
	}

	var doc models.Document
	if err := s.db.First(&doc, id).Error; err != nil {
		return nil, translate(err)
	}

	now := time.Now()
	doc.Status = status
	doc.ReviewedBy = &reviewerID
	doc.ReviewedAt = &now
	doc.Notes = notes
	if err := s.db.Save(&doc).Error; err != nil {
		return nil, err
	}

	if status == models.DocumentStatusVerified {
		err := s.db.Model(&models.User{}).Where("id = ?", doc.UserID).
			Update("status", models.UserStatusVerified).Error
		if err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

// AddNotification creates an in-app notification for a user.
func (s *Store) AddNotification(userID uint, notifType, title, body string, data datatypes.JSON) (*models.Notification, error) {
	n := models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// ListNotifications returns a user's notifications, newest first.
func (s *Store) ListNotifications(userID uint) ([]models.Notification, error) {
	var list []models.Notification
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// MarkNotificationRead marks one of the user's notifications as read. A
// notification belonging to someone else is not found.
func (s *Store) MarkNotificationRead(id, userID uint) error {
	res := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddAuditLog appends one audit trail row.
func (s *Store) AddAuditLog(entry models.AuditLog) error {
	return s.db.Create(&entry).Error
}

// ListAuditLogs returns the most recent audit rows, capped at limit.
func (s *Store) ListAuditLogs(limit int) ([]models.AuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var list []models.AuditLog
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
