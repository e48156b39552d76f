package validate

import (
	"fmt"
	"regexp"

	"github.com/focusgate/focusgate/internal/model"
)

// UserID must be lowercase letters, digits, underscore, hyphen, 1-64 chars
var userIDRx = regexp.MustCompile(`^[a-z0-9_\-]{1,64}$`)

// UserID validates the resolved user identifier.
func UserID(v string) error {
	if v == "" {
		return fmt.Errorf("userId is required")
	}
	if !userIDRx.MatchString(v) {
		return fmt.Errorf("userId contains invalid characters; allowed lowercase letters, digits, underscore, hyphen")
	}
	return nil
}

// NonEmpty rejects an empty string field.
func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// MaxLen rejects a string longer than limit bytes.
func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// ContentItem checks the evaluate request payload. Missing titles are allowed;
// the extractor treats them as neutral.
func ContentItem(c *model.ContentItem) error {
	if err := NonEmpty("source", c.Source); err != nil {
		return err
	}
	if err := MaxLen("title", c.Title, 1000); err != nil {
		return err
	}
	if c.ContentType == "" {
		c.ContentType = model.ContentTypeUnknown
	}
	if !c.ContentType.Valid() {
		return fmt.Errorf("invalid contentType: %s", c.ContentType)
	}
	return nil
}
