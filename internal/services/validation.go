package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"github.com/uipafrica/evaluation-backend/utils"
)

// Display labels for the per-field messages the frontend shows next to form
// inputs. Keyed by the json path of the field.
var fieldLabels = map[string]string{
	"employeeName":   "Employee name",
	"jobTitle":       "Job title",
	"department":     "Department",
	"supervisorName": "Supervisor name",

	"performanceRatings.qualityOfWork":         "Quality of Work",
	"performanceRatings.attendancePunctuality": "Attendance & Punctuality",
	"performanceRatings.reliability":           "Reliability",
	"performanceRatings.communicationSkills":   "Communication Skills",
	"performanceRatings.decisionMaking":        "Decision Making",
	"performanceRatings.initiativeFlexibility": "Initiative & Flexibility",
	"performanceRatings.cooperationTeamwork":   "Cooperation & Teamwork",
	"performanceRatings.knowledgeOfPosition":   "Knowledge of Position",
	"performanceRatings.technicalSkills":       "Technical Skills",
	"performanceRatings.innovation":            "Innovation",
	"performanceRatings.trainingDevelopment":   "Training & Development",
}

func validateCreate(req *models.CreateEvaluationRequest) *models.ValidationError {
	var fields []models.FieldError

	if err := utils.Validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				field := fieldPath(fe.Namespace())
				fields = append(fields, models.FieldError{
					Field:   field,
					Message: messageFor(field, fe.Tag()),
				})
			}
		} else {
			fields = append(fields, models.FieldError{Field: "payload", Message: err.Error()})
		}
	}

	var fromValid, toValid bool
	var from, to time.Time
	if req.ReviewPeriodFrom != "" {
		var err error
		if from, err = models.ParseDate(req.ReviewPeriodFrom); err != nil {
			fields = append(fields, models.FieldError{
				Field:   "reviewPeriodFrom",
				Message: "Valid review period from date is required",
			})
		} else {
			fromValid = true
		}
	}
	if req.ReviewPeriodTo != "" {
		var err error
		if to, err = models.ParseDate(req.ReviewPeriodTo); err != nil {
			fields = append(fields, models.FieldError{
				Field:   "reviewPeriodTo",
				Message: "Valid review period to date is required",
			})
		} else {
			toValid = true
		}
	}
	if fromValid && toValid && to.Before(from) {
		fields = append(fields, models.FieldError{
			Field:   "reviewPeriodTo",
			Message: "Review period end must not be before its start",
		})
	}

	if len(fields) > 0 {
		return &models.ValidationError{Errors: fields}
	}
	return nil
}

// fieldPath strips the request struct name from a validator namespace like
// "CreateEvaluationRequest.performanceRatings.qualityOfWork".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func messageFor(field, tag string) string {
	label, known := fieldLabels[field]

	switch tag {
	case "required":
		// the date and email fields carry their own phrasing
		switch field {
		case "reviewPeriodFrom":
			return "Valid review period from date is required"
		case "reviewPeriodTo":
			return "Valid review period to date is required"
		case "employeeEmail":
			return "Valid employee email is required"
		}
		if !known {
			label = field
		}
		return fmt.Sprintf("%s is required", label)
	case "email":
		return "Valid employee email is required"
	case "min", "max":
		if known {
			return fmt.Sprintf("%s rating must be between 1 and 5", label)
		}
		return fmt.Sprintf("%s is out of range", field)
	default:
		if !known {
			label = field
		}
		return fmt.Sprintf("%s is invalid", label)
	}
}
