package service

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"school-service/internal/apperr"
	"school-service/internal/model"
	"school-service/internal/tenant"
)

// FeeService owns fee charges and payments.
type FeeService struct {
	db *gorm.DB
}

func NewFeeService(db *gorm.DB) *FeeService {
	return &FeeService{db: db}
}

type CreateFeeInput struct {
	StudentID uint
	Title     string
	Amount    float64
	DueDate   *time.Time
}

// FeeSummary aggregates the tenant's pending position.
type FeeSummary struct {
	PendingCount  int64   `json:"pending_count"`
	PendingAmount float64 `json:"pending_amount"`
	PaidCount     int64   `json:"paid_count"`
	PaidAmount    float64 `json:"paid_amount"`
}

func (s *FeeService) Create(t tenant.Context, in CreateFeeInput) (*model.Fee, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.StudentID == 0 || in.Title == "" {
		return nil, apperr.Validationf("student and title are required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validationf("amount must be positive")
	}

	var count int64
	if err := s.db.Model(&model.Student{}).
		Where("aamar_id = ? AND id = ?", t.AamarID, in.StudentID).
		Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create fee")
	}
	if count == 0 {
		return nil, apperr.Validationf("student does not belong to this school")
	}

	fee := model.Fee{
		AamarID:   t.AamarID,
		StudentID: in.StudentID,
		Title:     in.Title,
		Amount:    in.Amount,
		DueDate:   in.DueDate,
		Status:    model.FeePending,
	}
	if err := s.db.Create(&fee).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to create fee")
	}
	return &fee, nil
}

func (s *FeeService) ListByStudent(t tenant.Context, studentID uint) ([]model.Fee, error) {
	var fees []model.Fee
	err := s.db.
		Where("aamar_id = ? AND student_id = ?", t.AamarID, studentID).
		Order("created_at").
		Find(&fees).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to list fees")
	}
	return fees, nil
}

// RecordPayment marks a pending fee as paid. Paying twice is a conflict.
func (s *FeeService) RecordPayment(t tenant.Context, feeID uint) (*model.Fee, error) {
	var fee model.Fee
	err := s.db.Where("aamar_id = ? AND id = ?", t.AamarID, feeID).First(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("fee not found")
		}
		return nil, apperr.FromDB(err, "", "failed to record payment")
	}
	if fee.Status == model.FeePaid {
		return nil, apperr.Conflictf("fee is already paid")
	}

	now := nowFunc()
	updates := map[string]interface{}{
		"status":  model.FeePaid,
		"paid_at": now,
	}
	if err := s.db.Model(&fee).Updates(updates).Error; err != nil {
		return nil, apperr.FromDB(err, "", "failed to record payment")
	}
	return &fee, nil
}

func (s *FeeService) PendingSummary(t tenant.Context) (*FeeSummary, error) {
	summary := FeeSummary{}

	type agg struct {
		Status string
		Count  int64
		Total  float64
	}
	var rows []agg
	err := s.db.Model(&model.Fee{}).
		Select("status, COUNT(*) AS count, SUM(amount) AS total").
		Where("aamar_id = ?", t.AamarID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.FromDB(err, "", "failed to compute fee summary")
	}
	for _, row := range rows {
		switch row.Status {
		case model.FeePending:
			summary.PendingCount = row.Count
			summary.PendingAmount = row.Total
		case model.FeePaid:
			summary.PaidCount = row.Count
			summary.PaidAmount = row.Total
		}
	}
	return &summary, nil
}
