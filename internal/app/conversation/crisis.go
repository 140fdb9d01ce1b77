package conversation

import (
	"strings"
	"time"

	"github.com/PabloGalante/innerguide/internal/domain"
)

// CrisisPhrases are matched case-insensitively as substrings.
var CrisisPhrases = []string{
	"suicide", "kill myself", "end it", "end my life", "want to die",
	"harm myself", "self harm", "cut myself", "overdose", "jump off",
	"hang myself", "shoot myself", "take my life", "no point living",
	"better off dead", "want to disappear", "end the pain",
}

// DetectCrisis reports whether text contains any crisis phrase.
func DetectCrisis(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range CrisisPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CrisisNotification is the advisory sent the first time a session detects
// crisis content.
func CrisisNotification() domain.Notification {
	return domain.Notification{
		Type:     domain.NotificationSupport,
		Title:    "Support Available",
		Message:  "Help is available 24/7. Check the support options above.",
		Duration: 5 * time.Second,
		Action: &domain.NotificationAction{
			Label:  "View helplines",
			Target: "/helplines?type=crisis",
		},
	}
}
