package services

import (
	"fmt"
	"strings"

	"github.com/smartagri/seat-allocator/pkg/core/model"
)

func submittedMessage(schemeTitle, applicationID string) string {
	return fmt.Sprintf("Your application for %s has been submitted. ID: %s", schemeTitle, applicationID)
}

func receivedSMS(applicationID string) string {
	return fmt.Sprintf("Your application %s is received.", applicationID)
}

func statusMessage(applicationID string, status model.Status) string {
	switch status {
	case model.StatusApproved:
		return fmt.Sprintf("Congratulations! Your application %s has been APPROVED. Benefit disbursement will follow shortly.", applicationID)
	case model.StatusRejected:
		return fmt.Sprintf("Your application %s has been REJECTED after document review. Please check requirements and re-apply if eligible.", applicationID)
	default:
		return fmt.Sprintf("Your application %s status has been updated to %s.", applicationID, strings.ToUpper(string(status)))
	}
}

func promotionMessage(applicationID string) string {
	return fmt.Sprintf("Good news! You have been promoted from the waitlist to PROVISIONALLY APPROVED for your application %s.", applicationID)
}
