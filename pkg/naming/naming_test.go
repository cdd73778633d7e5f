package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableize(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Post", "posts"},
		{"Person", "people"},
		{"Category", "categories"},
		{"Blog_Post", "blog_posts"},
		{"Admin_UserAccount", "admin_user_accounts"},
		{"Billing_Invoice_LineItem", "billing_invoice_line_items"},
		{"Status", "statuses"},
		{"", ""},
		{"__", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Tableize(tt.path))
		})
	}
}

func TestUnderscore(t *testing.T) {
	assert.Equal(t, "blog_post", Underscore("Blog_Post"))
	assert.Equal(t, "user_account", Underscore("UserAccount"))
	assert.Empty(t, Underscore(""))
}
