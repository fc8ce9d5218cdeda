package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hermeskali/bfd-commerce-sync/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SignupService persists newsletter form submissions.
type SignupService struct {
	db *gorm.DB
}

func NewSignupService(db *gorm.DB) *SignupService {
	return &SignupService{db: db}
}

// Record stores one signup. A resubmitted email updates the existing row
// instead of erroring, so form-provider redelivery is harmless.
func (s *SignupService) Record(email, formName string, payload map[string]string) (*models.Signup, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode signup payload: %w", err)
	}

	var existing models.Signup
	err = s.db.Where("email = ?", email).First(&existing).Error
	switch {
	case err == nil:
		existing.FormName = formName
		existing.Payload = datatypes.JSON(raw)
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		signup := models.Signup{
			ID:       uuid.New(),
			Email:    email,
			FormName: formName,
			Payload:  datatypes.JSON(raw),
		}
		if err := s.db.Create(&signup).Error; err != nil {
			return nil, err
		}
		return &signup, nil
	default:
		return nil, err
	}
}
