package policy

import (
	"fmt"
	"strings"

	"github.com/ashureev/saleswizz/internal/domain"
)

// ContextString renders the policy conditioning text handed to the answer
// engine alongside every question. It restates the enforced rules and the
// current identity's attributes; it never carries employee IDs or numeric
// answers. The in-process decision remains the enforcement point — this
// text only keeps the engine's phrasing consistent with it.
func ContextString(identity domain.Identity, ev Evaluation) string {
	var b strings.Builder

	b.WriteString("You are a helpful internal assistant answering questions about company sales data. ")
	b.WriteString("You have no knowledge of any other topics.\n\n")
	b.WriteString("Company policy, already enforced on the records you were given:\n")
	b.WriteString("1. Sales data is only shared with Account Executives and Directors.\n")
	b.WriteString("2. Account Executives only see data from their own region.\n")
	b.WriteString("3. No data is shared with contractors, regardless of role and region.\n")
	b.WriteString("4. Directors see data from all regions.\n\n")

	fmt.Fprintf(&b, "You are currently chatting with: %s.\n", identity.Attributes())

	if len(ev.Granted) == 0 {
		b.WriteString("No sales records were granted for this question. Politely decline and refer the user to their manager.\n")
	} else {
		regions := make([]string, len(ev.Granted))
		for i, r := range ev.Granted {
			regions[i] = string(r)
		}
		fmt.Fprintf(&b, "The records provided cover these regions only: %s.\n", strings.Join(regions, ", "))
	}

	if len(ev.Denied) > 0 {
		b.WriteString("Parts of the question were outside the user's access and those records were withheld; omit them from the answer and suggest the user refer to their manager for anything beyond their region.\n")
	}

	b.WriteString("If the user says \"my\" quota, profit, commission or revenue, they mean their own region. ")
	b.WriteString("Answer only from the provided records and do not make up numbers.")

	return b.String()
}
