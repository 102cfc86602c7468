package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Evaluation is the single persisted entity: one performance-evaluation form
// per supervisor submission. The token is the employee's access credential and
// must never reach admin-facing responses; admin reads project it out so it
// stays empty and omitempty drops it from the JSON.
type Evaluation struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReferenceNumber    string             `json:"referenceNumber" bson:"referenceNumber"`
	Token              string             `json:"token,omitempty" bson:"token,omitempty"`
	EmployeeName       string             `json:"employeeName" bson:"employeeName"`
	JobTitle           string             `json:"jobTitle" bson:"jobTitle"`
	Department         string             `json:"department" bson:"department"`
	SupervisorName     string             `json:"supervisorName" bson:"supervisorName"`
	ReviewPeriodFrom   time.Time          `json:"reviewPeriodFrom" bson:"reviewPeriodFrom"`
	ReviewPeriodTo     time.Time          `json:"reviewPeriodTo" bson:"reviewPeriodTo"`
	EmployeeEmail      string             `json:"employeeEmail" bson:"employeeEmail"`
	PerformanceRatings PerformanceRatings `json:"performanceRatings" bson:"performanceRatings"`

	OverallPerformanceComments string `json:"overallPerformanceComments" bson:"overallPerformanceComments"`
	SupervisorComments         string `json:"supervisorComments" bson:"supervisorComments"`
	EmployeeComments           string `json:"employeeComments" bson:"employeeComments"`

	Acknowledged       bool       `json:"acknowledged" bson:"acknowledged"`
	SignatureName      string     `json:"signatureName" bson:"signatureName"`
	SignatureTimestamp *time.Time `json:"signatureTimestamp,omitempty" bson:"signatureTimestamp,omitempty"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// PerformanceRatings scores the eleven competency dimensions, each on a 1-5
// scale. A zero value means the rating was missing from the request, which
// the min=1 tag rejects.
type PerformanceRatings struct {
	QualityOfWork         int `json:"qualityOfWork" bson:"qualityOfWork" validate:"min=1,max=5"`
	AttendancePunctuality int `json:"attendancePunctuality" bson:"attendancePunctuality" validate:"min=1,max=5"`
	Reliability           int `json:"reliability" bson:"reliability" validate:"min=1,max=5"`
	CommunicationSkills   int `json:"communicationSkills" bson:"communicationSkills" validate:"min=1,max=5"`
	DecisionMaking        int `json:"decisionMaking" bson:"decisionMaking" validate:"min=1,max=5"`
	InitiativeFlexibility int `json:"initiativeFlexibility" bson:"initiativeFlexibility" validate:"min=1,max=5"`
	CooperationTeamwork   int `json:"cooperationTeamwork" bson:"cooperationTeamwork" validate:"min=1,max=5"`
	KnowledgeOfPosition   int `json:"knowledgeOfPosition" bson:"knowledgeOfPosition" validate:"min=1,max=5"`
	TechnicalSkills       int `json:"technicalSkills" bson:"technicalSkills" validate:"min=1,max=5"`
	Innovation            int `json:"innovation" bson:"innovation" validate:"min=1,max=5"`
	TrainingDevelopment   int `json:"trainingDevelopment" bson:"trainingDevelopment" validate:"min=1,max=5"`
}

type CreateEvaluationRequest struct {
	EmployeeName       string             `json:"employeeName" validate:"required"`
	JobTitle           string             `json:"jobTitle" validate:"required"`
	Department         string             `json:"department" validate:"required"`
	SupervisorName     string             `json:"supervisorName" validate:"required"`
	ReviewPeriodFrom   string             `json:"reviewPeriodFrom" validate:"required"`
	ReviewPeriodTo     string             `json:"reviewPeriodTo" validate:"required"`
	EmployeeEmail      string             `json:"employeeEmail" validate:"required,email"`
	PerformanceRatings PerformanceRatings `json:"performanceRatings"`

	OverallPerformanceComments string `json:"overallPerformanceComments"`
	SupervisorComments         string `json:"supervisorComments"`
}

type AcknowledgeRequest struct {
	SignatureName    string `json:"signatureName"`
	EmployeeComments string `json:"employeeComments"`
}

// SearchFilters are independently optional; name/department/search are
// case-insensitive substring matches and the period bounds anchor on the
// matching side (from >= lower, to <= upper).
type SearchFilters struct {
	EmployeeName     string
	Department       string
	ReviewPeriodFrom *time.Time
	ReviewPeriodTo   *time.Time
	Search           string
}

// ParseDate accepts the date formats the clients send: full RFC 3339
// timestamps or bare YYYY-MM-DD dates.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
