package reconcile

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	domainDepartment "github.com/zapdesk/zapdesk/domains/department"
	"github.com/zapdesk/zapdesk/pkg/timeutils"
)

var menuReplyPattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// ComposeMenu builds the department selection prompt: a time-of-day greeting
// followed by the numbered department list in menu order.
func ComposeMenu(now time.Time, departments []domainDepartment.Department) string {
	ordered := sortedByPosition(departments)

	var b strings.Builder
	fmt.Fprintf(&b, "%s! Bem-vindo ao nosso atendimento.\n", timeutils.Greeting(now))
	b.WriteString("Digite o número do departamento desejado:\n")
	for i, d := range ordered {
		fmt.Fprintf(&b, "\n%d - %s", i+1, d.Name)
	}
	return b.String()
}

// SelectDepartment interprets a customer reply against the ordered department
// list. Non-numeric or out-of-range replies select nothing; that is not an
// error, the chat simply stays unassigned.
func SelectDepartment(reply string, departments []domainDepartment.Department) (domainDepartment.Department, bool) {
	reply = strings.TrimSpace(reply)
	if !menuReplyPattern.MatchString(reply) {
		return domainDepartment.Department{}, false
	}
	n, err := strconv.Atoi(reply)
	if err != nil || n < 1 || n > len(departments) {
		return domainDepartment.Department{}, false
	}
	return sortedByPosition(departments)[n-1], true
}

func sortedByPosition(departments []domainDepartment.Department) []domainDepartment.Department {
	ordered := make([]domainDepartment.Department, len(departments))
	copy(ordered, departments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}
