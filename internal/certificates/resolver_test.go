package certificates

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Name", "name"},
		{"  Full Name  ", "full_name"},
		{"full--name", "full_name"},
		{"FULL _ NAME", "full_name"},
		{"event-date", "event_date"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeKey(tt.in))
	}
}

func TestNormalizeKey_Idempotent(t *testing.T) {
	for _, key := range []string{"Full Name", "enrollment-no", "  EVENT_DATE "} {
		once := NormalizeKey(key)
		assert.Equal(t, once, NormalizeKey(once))
	}
}

func TestResolvePlaceholders_AllGrammars(t *testing.T) {
	dict := Dictionary{"name": "Asha", "date": "1 Jan 2025"}

	tests := []struct {
		template string
		expected string
	}{
		{"Dear {{name}}, awarded on (date).", "Dear Asha, awarded on 1 Jan 2025."},
		{"Dear {name}", "Dear Asha"},
		{"Dear [name]", "Dear Asha"},
		{"Dear (name)", "Dear Asha"},
		{"{{ name }} on {{date}}", "Asha on 1 Jan 2025"},
	}
	for _, tt := range tests {
		out, unresolved := ResolvePlaceholders(tt.template, dict)
		assert.Equal(t, tt.expected, out)
		assert.Empty(t, unresolved)
	}
}

func TestResolvePlaceholders_UnknownKeyLeftVerbatim(t *testing.T) {
	out, unresolved := ResolvePlaceholders("Award for {unknown_field} here", Dictionary{"name": "Asha"})

	assert.Equal(t, "Award for {unknown_field} here", out)
	assert.Equal(t, []string{"unknown_field"}, unresolved)
}

func TestResolvePlaceholders_CaseAndSeparatorInsensitive(t *testing.T) {
	dict := Dictionary{"full_name": "Asha Verma"}

	out, _ := ResolvePlaceholders("{{Full Name}} / [full-name] / {FULL_NAME}", dict)

	assert.Equal(t, "Asha Verma / Asha Verma / Asha Verma", out)
}

func TestResolvePlaceholders_StrippedRetry(t *testing.T) {
	// "full name" normalizes to full_name, which misses; stripping
	// non-alphanumerics finds the fullname spelling.
	dict := Dictionary{"fullname": "Asha"}

	out, unresolved := ResolvePlaceholders("{{full name}}", dict)

	assert.Equal(t, "Asha", out)
	assert.Empty(t, unresolved)
}

func TestResolvePlaceholders_ProseAndCSSUntouched(t *testing.T) {
	dict := Dictionary{"name": "Asha", "see": "BOOM", "color": "BOOM"}

	template := `<style>body {color: red}</style><p>Certificate (see appendix A) for {{name}}</p>`
	out, _ := ResolvePlaceholders(template, dict)

	assert.Equal(t, `<style>body {color: red}</style><p>Certificate (see appendix A) for Asha</p>`, out)
}

func TestResolvePlaceholders_EmptyValueTreatedAsMissing(t *testing.T) {
	out, unresolved := ResolvePlaceholders("Hello {{name}}", Dictionary{"name": ""})

	assert.Equal(t, "Hello {{name}}", out)
	assert.Equal(t, []string{"name"}, unresolved)
}

func TestResolvePlaceholders_EachOccurrenceSubstituted(t *testing.T) {
	out, _ := ResolvePlaceholders("{{name}} and {name} and [name]", Dictionary{"name": "A"})

	assert.Equal(t, "A and A and A", out)
}

func TestBuildFilename(t *testing.T) {
	assert.Equal(t, "Participation_Tech_Symposium_2025_Asha_Verma.pdf",
		BuildFilename("Participation", "Tech Symposium 2025!", "Asha Verma"))
	assert.Equal(t, "Merit__.pdf", BuildFilename("Merit", "", ""))
}
