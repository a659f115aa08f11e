package bbsdir

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	guideNameRe     = regexp.MustCompile(`^\s{2,}([\w*\-'!?&./\\,:;()\[\]#@+ ]{3,})$`)
	guideSoftwareRe = regexp.MustCompile(`^Software:\s*([^\t\r\n]+)$`)
	guideTelnetRe   = regexp.MustCompile(`^Telnet:\s*(\S+)`)
)

// ParseGuide parses the loosely structured text format distributed as the
// "Telnet BBS Guide" and returns the entries it could recognize. Lines it
// doesn't understand (SSH/WEB/Email/Dial-Up blocks) are skipped rather than
// rejected, matching the teacher's tolerant line-scanner.
func ParseGuide(text string) []Entry {
	var entries []Entry
	var cur *Entry

	finalize := func() {
		if cur == nil || cur.Host == "" {
			cur = nil
			return
		}
		if cur.Port == 0 {
			cur.Port = 23
		}
		if cur.Protocol == "" {
			cur.Protocol = "telnet"
		}
		if cur.Encoding == "" {
			cur.Encoding = "CP437"
		}
		if cur.Description == "" {
			cur.Description = cur.Name + " BBS"
		}
		if cur.ID == "" {
			cur.ID = GenerateSlug(cur.Name)
		}
		cur.Active = true
		entries = append(entries, *cur)
		cur = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if strings.HasPrefix(t, "---") {
			finalize()
			continue
		}
		if strings.HasPrefix(t, "Last Updated:") {
			continue
		}
		if hasAnyPrefix(t, "SSH:", "WEB:", "Email:", "Location:", "Dial-Up:", "BBS:") {
			continue
		}

		if m := guideTelnetRe.FindStringSubmatch(t); m != nil {
			if cur == nil {
				cur = &Entry{}
			}
			addr := m[1]
			if i := strings.Index(addr, "//"); i != -1 {
				addr = addr[i+2:]
			}
			if i := strings.LastIndex(addr, "@"); i != -1 {
				addr = addr[i+1:]
			}
			host, port := addr, 23
			if i := strings.LastIndex(addr, ":"); i != -1 {
				host = addr[:i]
				if v, err := strconv.Atoi(addr[i+1:]); err == nil {
					port = v
				}
			}
			cur.Host = host
			cur.Port = port
			if cur.Name == "" {
				cur.Name = host
			}
			cur.Protocol = "telnet"
			continue
		}

		if m := guideSoftwareRe.FindStringSubmatch(t); m != nil {
			if cur == nil {
				cur = &Entry{}
			}
			cur.Software = firstField(strings.TrimSpace(m[1]), "  ", "\t", "Total Nodes:", "Login:")
			continue
		}

		if m := guideNameRe.FindStringSubmatch(raw); m != nil {
			if strings.Contains(m[1], ":") {
				continue
			}
			finalize()
			name := strings.TrimPrefix(strings.TrimSpace(m[1]), "*")
			cur = &Entry{Name: strings.TrimSpace(name)}
			continue
		}
	}
	finalize()
	return entries
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func firstField(s string, cutAt ...string) string {
	for _, c := range cutAt {
		if i := strings.Index(s, c); i != -1 {
			s = strings.TrimSpace(s[:i])
		}
	}
	return s
}
