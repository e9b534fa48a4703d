package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aditasap/bizscope/internal/page"
)

var (
	teamSectionRe = regexp.MustCompile(`(?i)team|staff|personnel|people|about`)
	personCardRe  = regexp.MustCompile(`(?i)card|member|person|profile`)
	roleClassRe   = regexp.MustCompile(`(?i)role|position|title`)
)

// Result keys for a roster entry. The stock schema is Hebrew, so entries
// use the same Hebrew keys the schema examples declare.
const (
	teamKeyName  = "שם"
	teamKeyRole  = "תפקיד"
	teamKeyEmail = "דוא\"ל"
)

// extractTeam parses a staff roster from team/staff sections: person cards
// (or list items) yielding name, optional role, optional email. Returns nil
// when no section yields at least one named person.
func extractTeam(p *page.Page) any {
	var team []any

	p.Doc().Find("section, div, ul").EachWithBreak(func(_ int, section *goquery.Selection) bool {
		class, _ := section.Attr("class")
		id, _ := section.Attr("id")
		if !teamSectionRe.MatchString(class) && !teamSectionRe.MatchString(id) {
			return true
		}

		people := section.Find("div, li, article").FilterFunction(func(_ int, s *goquery.Selection) bool {
			c, _ := s.Attr("class")
			return personCardRe.MatchString(c)
		})
		if people.Length() == 0 {
			people = section.Find("li")
		}

		people.Each(func(_ int, person *goquery.Selection) {
			entry := parsePerson(person)
			if entry != nil {
				team = append(team, entry)
			}
		})

		return len(team) == 0
	})

	if len(team) == 0 {
		return nil
	}
	return team
}

// parsePerson extracts one roster entry from a person card. A name is
// required; role and email are optional.
func parsePerson(person *goquery.Selection) map[string]any {
	nameElem := person.Find("h3, h4, h5, strong, b").First()
	name := strings.TrimSpace(nameElem.Text())
	if name == "" {
		return nil
	}

	entry := map[string]any{teamKeyName: name}

	role := ""
	person.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if roleClassRe.MatchString(class) {
			role = strings.TrimSpace(s.Text())
			return false
		}
		return true
	})
	if role == "" {
		// Any paragraph or span that is not the name itself.
		person.Find("p, span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			t := strings.TrimSpace(s.Text())
			if t != "" && t != name {
				role = t
				return false
			}
			return true
		})
	}
	if role != "" {
		entry[teamKeyRole] = role
	}

	if href, ok := person.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		if email := strings.TrimPrefix(href, "mailto:"); IsValidEmail(email) {
			entry[teamKeyEmail] = email
		}
	}

	return entry
}
