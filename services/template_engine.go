package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"legal_connect_go/models"
)

// variableRegex matches {{variable.path}} patterns
var variableRegex = regexp.MustCompile(`\{\{([a-zA-Z0-9_.]+)\}\}`)

// TemplateData carries the values available to document templates
type TemplateData struct {
	Case   *models.Case
	Owner  *models.User
	Lawyer *models.User
	Today  time.Time
}

// BuildTemplateData assembles template values from a case record
func BuildTemplateData(caseRecord *models.Case) TemplateData {
	data := TemplateData{
		Case:  caseRecord,
		Today: time.Now(),
	}
	if caseRecord.Owner.ID != "" {
		data.Owner = &caseRecord.Owner
	}
	data.Lawyer = caseRecord.AssignedTo
	return data
}

// RenderTemplate replaces {{variable}} placeholders with actual values.
// A known field whose value is simply empty (no claim amount, no
// assigned lawyer) renders as an empty string; an unknown placeholder
// is left untouched so a malformed template is visible in the
// generated output instead of silently blanked.
func RenderTemplate(content string, data TemplateData) string {
	return variableRegex.ReplaceAllStringFunc(content, func(match string) string {
		key := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")

		value, known := getValueByKey(key, data)
		if !known {
			return match
		}
		return value
	})
}

// getValueByKey retrieves a value using a dot-notation key. The second
// return reports whether the key names a field templates may use.
func getValueByKey(key string, data TemplateData) (string, bool) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", false
	}

	switch parts[0] {
	case "case":
		return getCaseValue(parts[1], data.Case)
	case "owner":
		return getUserValue(parts[1], data.Owner)
	case "lawyer":
		return getUserValue(parts[1], data.Lawyer)
	case "today":
		return getTodayValue(parts[1], data.Today)
	default:
		return "", false
	}
}

func getCaseValue(field string, caseRecord *models.Case) (string, bool) {
	if caseRecord == nil {
		return "", false
	}
	switch field {
	case "id":
		return caseRecord.ID, true
	case "title":
		return caseRecord.Title, true
	case "description":
		return caseRecord.Description, true
	case "status":
		return caseRecord.Status, true
	case "priority":
		return caseRecord.Priority, true
	case "claim_amount":
		if caseRecord.ClaimAmount == nil {
			return "", true
		}
		return fmt.Sprintf("%.2f", *caseRecord.ClaimAmount), true
	case "deadline":
		if caseRecord.Deadline == nil {
			return "", true
		}
		return caseRecord.Deadline.Format("2006-01-02"), true
	default:
		return "", false
	}
}

func getUserValue(field string, user *models.User) (string, bool) {
	switch field {
	case "name":
		if user == nil {
			return "", true
		}
		return user.Name, true
	case "email":
		if user == nil {
			return "", true
		}
		return user.Email, true
	default:
		return "", false
	}
}

func getTodayValue(field string, today time.Time) (string, bool) {
	switch field {
	case "date":
		return today.Format("2006-01-02"), true
	case "year":
		return fmt.Sprintf("%d", today.Year()), true
	default:
		return "", false
	}
}
