package appconfig

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// TableList is a comma separated list of warehouse table names. Names are upper-cased and
// de-duplicated.
type TableList []string

func (l *TableList) Decode(value string) error {
	tables := []string{}
	for _, t := range strings.Split(value, ",") {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !tableNameRe.MatchString(t) {
			return fmt.Errorf("invalid table list: %q is not a valid table name", t)
		}
		tables = append(tables, t)
	}
	*l = lo.Uniq(tables)
	return nil
}
