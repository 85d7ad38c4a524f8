package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/soma/core"
	"github.com/trezcool/soma/core/user"
)

func Test_trapErr(t *testing.T) {
	t.Run("no rows", func(t *testing.T) {
		if err := trapErr(sql.ErrNoRows, "getting profile by id"); err != user.ErrNotFound {
			t.Errorf("trapErr() = %v, want %v", err, user.ErrNotFound)
		}
	})

	t.Run("dead connection warrants shutdown", func(t *testing.T) {
		for _, cause := range []error{sql.ErrConnDone, driver.ErrBadConn} {
			if err := trapErr(cause, "getting profile by id"); !core.IsShutdown(err) {
				t.Errorf("trapErr(%v) = %v, want shutdown error", cause, err)
			}
		}
	})

	t.Run("anything else wraps", func(t *testing.T) {
		cause := errors.New("syntax error")
		err := trapErr(cause, "filtering profiles")
		if core.IsShutdown(err) || errors.Cause(err) != cause {
			t.Errorf("trapErr() = %v, want wrapped cause", err)
		}
	})
}
