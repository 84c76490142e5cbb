package intent

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	table := []struct {
		name     string
		doc      string
		expected UserIntent
		err      string
	}{
		{
			name: "numbers",
			doc:  `{"email": "a@b.c", "pwd": "secret", "concert": "BLACKPINK", "zone": "A1", "show": 2, "seats": 3}`,
			expected: UserIntent{
				Email: "a@b.c", Password: "secret", Concert: "BLACKPINK",
				Zone: "A1", Show: 2, Seats: 3,
			},
		},
		{
			name: "numeric strings",
			doc:  `{"email": "a@b.c", "pwd": "secret", "concert": "BLACKPINK", "zone": "A1", "show": "1", "seats": " 4 "}`,
			expected: UserIntent{
				Email: "a@b.c", Password: "secret", Concert: "BLACKPINK",
				Zone: "A1", Show: 1, Seats: 4,
			},
		},
		{
			name: "missing keys",
			doc:  `{"email": "a@b.c", "concert": "BLACKPINK", "show": 1}`,
			err:  "pwd, zone, seats",
		},
		{
			name: "zero seats",
			doc:  `{"email": "a@b.c", "pwd": "x", "concert": "BLACKPINK", "zone": "A1", "show": 1, "seats": 0}`,
			err:  "seats must be a positive number",
		},
		{
			name: "fractional show",
			doc:  `{"email": "a@b.c", "pwd": "x", "concert": "BLACKPINK", "zone": "A1", "show": 1.5, "seats": 1}`,
			err:  "show must be a whole number",
		},
		{
			name: "not a number",
			doc:  `{"email": "a@b.c", "pwd": "x", "concert": "BLACKPINK", "zone": "A1", "show": "first", "seats": 1}`,
			err:  "show must be a number",
		},
		{
			name: "not json",
			doc:  `email: a@b.c`,
			err:  "parse user intent",
		},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			got, err := Parse([]byte(row.doc))
			if row.err != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), row.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, row.expected, got)
		})
	}
}

func TestMissingKeysSentinel(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	require.ErrorIs(t, err, ErrMissingKeys)
	require.Contains(t, err.Error(), "email, pwd, concert, zone, show, seats")
}

func TestLoadPasswordOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "userdetail.json")
	err := os.WriteFile(path, []byte(`{"email": "a@b.c", "pwd": "from-file", "concert": "X", "zone": "A", "show": 1, "seats": 1}`), 0644)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", got.Password)

	t.Setenv(PasswordEnv, "from-env")
	got, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", got.Password)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "userdetail.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestPasswordNeverPrinted(t *testing.T) {
	u := UserIntent{Email: "a@b.c", Password: "hunter2", Concert: "X", Zone: "A", Show: 1, Seats: 2}
	require.NotContains(t, u.String(), "hunter2")
	require.NotContains(t, fmt.Sprintf("%v", u), "hunter2")

	var out strings.Builder
	logger := slog.New(slog.NewTextHandler(&out, nil))
	logger.Info("booking", "intent", u)
	require.NotContains(t, out.String(), "hunter2")
	require.Contains(t, out.String(), "intent.email=a@b.c")
}
