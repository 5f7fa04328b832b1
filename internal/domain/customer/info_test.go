//go:build unit

package customer_test

import (
	"testing"

	"waitdesk/internal/domain/customer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInfo(t *testing.T) {
	cases := []struct {
		name  string
		cname string
		email string
		errIs error
	}{
		{name: "valid", cname: "Dana Smith", email: "dana@example.com"},
		{name: "missing name", cname: "  ", email: "dana@example.com", errIs: customer.ErrNameRequired},
		{name: "missing email", cname: "Dana", email: "", errIs: customer.ErrEmailRequired},
		{name: "no at sign", cname: "Dana", email: "dana.example.com", errIs: customer.ErrInvalidEmail},
		{name: "no domain dot", cname: "Dana", email: "dana@example", errIs: customer.ErrInvalidEmail},
		{name: "at sign first", cname: "Dana", email: "@example.com", errIs: customer.ErrInvalidEmail},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			info, err := customer.NewInfo(c.cname, c.email, "", "")
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.email, info.Email)
		})
	}

	t.Run("email is lowercased and trimmed", func(t *testing.T) {
		info, err := customer.NewInfo("Dana", "  Dana@Example.COM ", " 555-0100 ", "")
		require.NoError(t, err)
		assert.Equal(t, "dana@example.com", info.Email)
		assert.Equal(t, "555-0100", info.Phone)
	})
}
