package domain

import (
	"context"
	"time"
)

const (
	RequestPending    = "pending"
	RequestInProgress = "inprogress"
	RequestDone       = "done"
	RequestCanceled   = "canceled"
)

func ValidRequestStatus(s string) bool {
	switch s {
	case RequestPending, RequestInProgress, RequestDone, RequestCanceled:
		return true
	}
	return false
}

type BloodRequest struct {
	ID             string    `gorm:"primaryKey;size:36" json:"_id"`
	RequesterName  string    `gorm:"size:128" json:"requesterName"`
	RequesterEmail string    `gorm:"size:191;index;not null" json:"requesterEmail"`
	RecipientName  string    `gorm:"size:128" json:"recipientName"`
	BloodType      string    `gorm:"size:8" json:"bloodType"`
	District       string    `gorm:"size:64" json:"district"`
	Upazila        string    `gorm:"size:64" json:"upazila"`
	HospitalName   string    `gorm:"size:191" json:"hospitalName"`
	FullAddress    string    `gorm:"size:512" json:"fullAddress"`
	DonationDate   string    `gorm:"size:16" json:"donationDate"`
	DonationTime   string    `gorm:"size:16" json:"donationTime"`
	Message        string    `gorm:"type:text" json:"requestMessage"`
	Status         string    `gorm:"size:16;not null;default:pending;index" json:"status"`
	DonorName      string    `gorm:"size:128" json:"donorName"`
	DonorEmail     string    `gorm:"size:191" json:"donorEmail"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (BloodRequest) TableName() string { return "blood_requests" }

type RequestRepository interface {
	Insert(ctx context.Context, r *BloodRequest) error
	FindByID(ctx context.Context, id string) (*BloodRequest, error)
	List(ctx context.Context, f RequestFilter) ([]BloodRequest, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
