// Package intent holds what the user wants to book.
package intent

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/titanous/json5"
)

// PasswordEnv overrides the password stored in the intent file when set.
const PasswordEnv = "TICKETBOOKER_PASSWORD"

var ErrMissingKeys = errors.New("missing required keys")

// UserIntent is a single booking request. Show is 1-based.
type UserIntent struct {
	Email    string
	Password string
	Concert  string
	Show     int
	Zone     string
	Seats    int
}

var requiredKeys = []string{"email", "pwd", "concert", "zone", "show", "seats"}

func stringField(doc map[string]any, key string) (string, error) {
	switch v := doc[key].(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("%s must be a string, got %v", key, v)
	}
}

// intField accepts both 2 and "2".
func intField(doc map[string]any, key string) (int, error) {
	switch v := doc[key].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("%s must be a whole number, got %v", key, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%s must be a number, got %q", key, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be a number, got %v", key, v)
	}
}

// Load reads and validates the intent file at path.
func Load(path string) (UserIntent, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return UserIntent{}, err
	}
	intent, err := Parse(contents)
	if err != nil {
		return UserIntent{}, fmt.Errorf("%s: %w", path, err)
	}
	if pwd := os.Getenv(PasswordEnv); pwd != "" {
		intent.Password = pwd
	}
	return intent, nil
}

// Parse decodes and validates an intent document.
func Parse(contents []byte) (UserIntent, error) {
	var doc map[string]any
	err := json5.Unmarshal(contents, &doc)
	if err != nil {
		return UserIntent{}, fmt.Errorf("parse user intent: %w", err)
	}
	var missing []string
	for _, key := range requiredKeys {
		if _, ok := doc[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return UserIntent{}, fmt.Errorf("%w: %s", ErrMissingKeys, strings.Join(missing, ", "))
	}

	var intent UserIntent
	var errs []error
	for key, dst := range map[string]*string{
		"email":   &intent.Email,
		"pwd":     &intent.Password,
		"concert": &intent.Concert,
		"zone":    &intent.Zone,
	} {
		*dst, err = stringField(doc, key)
		errs = append(errs, err)
	}
	intent.Show, err = intField(doc, "show")
	errs = append(errs, err)
	intent.Seats, err = intField(doc, "seats")
	errs = append(errs, err)
	err = errors.Join(errs...)
	if err != nil {
		return UserIntent{}, err
	}
	return intent, intent.Validate()
}

// Validate checks the fields of an intent that was not necessarily loaded
// from a file.
func (u UserIntent) Validate() error {
	if u.Show < 1 {
		return fmt.Errorf("show must be a positive number, got %d", u.Show)
	}
	if u.Seats < 1 {
		return fmt.Errorf("seats must be a positive number, got %d", u.Seats)
	}
	if strings.TrimSpace(u.Concert) == "" {
		return fmt.Errorf("concert is empty")
	}
	return nil
}

func (u UserIntent) String() string {
	return fmt.Sprintf(
		"%s wants %d seat(s) in zone %q, show %d of %q",
		u.Email, u.Seats, u.Zone, u.Show, u.Concert,
	)
}

func (u UserIntent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("email", u.Email),
		slog.String("concert", u.Concert),
		slog.Int("show", u.Show),
		slog.String("zone", u.Zone),
		slog.Int("seats", u.Seats),
	)
}
