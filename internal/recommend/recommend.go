// Package recommend produces rule-based study advice from a domain.Snapshot.
//
// Rules are evaluated in a fixed order and every applicable rule contributes:
//
//  1. Overdue: one message counting incomplete assignments past their deadline.
//  2. Upcoming: one message counting incomplete assignments due in 1 to 3 days.
//  3. Low progress: one message per subject below 30% progress, chosen by name keyword.
//  4. GATE: one message if any subject name mentions "gate".
//  5. Encouragement: two fixed messages, only when rules 1 to 4 produced nothing.
//
// The output depends only on the snapshot and the supplied time.
package recommend

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/roach88/studyflow/internal/analytics"
	"github.com/roach88/studyflow/internal/domain"
)

// LowProgressThreshold is the progress percentage below which a subject gets advice.
const LowProgressThreshold = 30.0

// UpcomingHorizonDays bounds the upcoming-deadline rule.
const UpcomingHorizonDays = 3

// Fixed advice.
const (
	DSATip        = "💡 DSA needs attention: Practice LeetCode/CodeForces problems daily (Arrays, LinkedLists, Trees)."
	DBMSTip       = "💡 DBMS: Focus on Normalization, SQL queries, Transactions, and Indexing for GATE."
	OSTip         = "💡 OS: Cover Process Scheduling, Deadlocks, Memory Management, and Paging."
	GATETip       = "🎯 GATE Prep: Solve previous year questions and take mock tests regularly."
	AllGood       = "✅ Great work! Keep maintaining your study schedule."
	KeepExpanding = "📚 Consider adding more subjects or increasing target hours for comprehensive preparation."
)

// OverdueMessage formats the overdue-count advice.
func OverdueMessage(n int) string {
	return fmt.Sprintf("⚠️ You have %d overdue assignment(s). Complete them urgently!", n)
}

// UpcomingMessage formats the upcoming-deadline advice.
func UpcomingMessage(n int) string {
	return fmt.Sprintf("📅 %d assignment(s) due in the next 3 days.", n)
}

// LowProgressMessage formats the generic advice for a lagging subject.
// progress is rounded half away from zero.
func LowProgressMessage(name string, progress float64) string {
	return fmt.Sprintf("💡 %s: You're at %.0f%% progress. Increase study time!", name, math.Round(progress))
}

// keywordRule maps name keywords to a fixed tip. Rules are tried in order.
type keywordRule struct {
	keywords []string
	tip      string
}

var subjectRules = []keywordRule{
	{keywords: []string{"dsa", "algorithm"}, tip: DSATip},
	{keywords: []string{"dbms", "database"}, tip: DBMSTip},
	{keywords: []string{"os", "operating"}, tip: OSTip},
}

// Recommendations evaluates every rule against snap at now.
func Recommendations(snap domain.Snapshot, now time.Time) []string {
	var out []string

	overdue, upcoming := 0, 0
	for _, a := range snap.Assignments {
		if a.Completed {
			continue
		}
		if a.Deadline.Before(now) {
			overdue++
		}
		if days := analytics.DaysUntilDeadline(a, now); days > 0 && days <= UpcomingHorizonDays {
			upcoming++
		}
	}
	if overdue > 0 {
		out = append(out, OverdueMessage(overdue))
	}
	if upcoming > 0 {
		out = append(out, UpcomingMessage(upcoming))
	}

	gate := false
	for _, s := range snap.Subjects {
		name := fold(s.Name)
		if strings.Contains(name, "gate") {
			gate = true
		}
		if progress := s.Progress(); progress < LowProgressThreshold {
			out = append(out, subjectAdvice(s.Name, name, progress))
		}
	}
	if gate {
		out = append(out, GATETip)
	}

	if len(out) == 0 {
		out = append(out, AllGood, KeepExpanding)
	}
	return out
}

func subjectAdvice(name, folded string, progress float64) string {
	for _, rule := range subjectRules {
		for _, kw := range rule.keywords {
			if strings.Contains(folded, kw) {
				return rule.tip
			}
		}
	}
	return LowProgressMessage(name, progress)
}

// fold lower-cases s for keyword matching. A Caser is not safe for concurrent
// use, so one is built per call.
func fold(s string) string {
	return cases.Lower(language.Und).String(s)
}
