package domain

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusAccepted  JobStatus = "ACCEPTED"
	JobStatusDeclined  JobStatus = "DECLINED"
	JobStatusCompleted JobStatus = "COMPLETED"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusAccepted, JobStatusDeclined, JobStatusCompleted:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
// PENDING may become ACCEPTED or DECLINED, ACCEPTED may become COMPLETED,
// DECLINED and COMPLETED are terminal.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusAccepted || next == JobStatusDeclined
	case JobStatusAccepted:
		return next == JobStatusCompleted
	default:
		return false
	}
}

type ServiceType string

const (
	ServiceTypeCleaning    ServiceType = "Cleaning"
	ServiceTypeCooking     ServiceType = "Cooking"
	ServiceTypeGardening   ServiceType = "Gardening"
	ServiceTypePlumbing    ServiceType = "Plumbing"
	ServiceTypeElectrician ServiceType = "Electrician"
	ServiceTypeOther       ServiceType = "Other"
)

// Job is the unit of requested household work. The creator assigns the id;
// status is the only field mutated after creation.
type Job struct {
	ID               string      `json:"id"`
	ClientID         string      `json:"clientId"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ServiceType      ServiceType `json:"serviceType"`
	Location         string      `json:"location"`
	Date             string      `json:"date"`
	Budget           string      `json:"budget"`
	Status           JobStatus   `json:"status"`
	CreatedAt        int64       `json:"createdAt"`
	AIEstimatedQuote string      `json:"aiEstimatedQuote,omitempty"`
}

// NowMillis is the clock used for Job.CreatedAt.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
