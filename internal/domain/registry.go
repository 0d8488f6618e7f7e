package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	AboutMeMinLen = 5
	AboutMeMaxLen = 1000

	// DateLayout is the stored birthdate format.
	DateLayout = "2006-01-02"

	// MinBirthYear is the earliest accepted birthdate year.
	MinBirthYear = 1900
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

var birthdateLayouts = []string{DateLayout, time.RFC3339, "2006-01-02T15:04:05"}

// ValidateComponent checks the values p supplies for component c and returns
// a patch holding only those values, normalised. now is evaluated in UTC.
func ValidateComponent(c Component, p DraftPatch, now time.Time) (DraftPatch, error) {
	var out DraftPatch
	switch c {
	case ComponentAboutMe:
		v, err := validateAboutMe(p.AboutMe.OrElse(""))
		if err != nil {
			return DraftPatch{}, err
		}
		out.AboutMe = Some(v)

	case ComponentAddress:
		street, city, state, zip, err := validateAddress(p)
		if err != nil {
			return DraftPatch{}, err
		}
		out.Street, out.City, out.State = Some(street), Some(city), Some(state)
		if p.Zip.IsSet() {
			out.Zip = Some(zip)
		}

	case ComponentBirthdate:
		v, err := validateBirthdate(p.Birthdate.OrElse(""), now)
		if err != nil {
			return DraftPatch{}, err
		}
		out.Birthdate = Some(v)

	default:
		return DraftPatch{}, ErrUnknownComponent(string(c))
	}
	return out, nil
}

func validateAboutMe(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(v)
	switch {
	case n == 0:
		return "", ErrComponentInvalid(ComponentAboutMe, "about_me", "required")
	case n < AboutMeMinLen:
		return "", ErrComponentInvalid(ComponentAboutMe, "about_me", "must be at least 5 characters")
	case n > AboutMeMaxLen:
		return "", ErrComponentInvalid(ComponentAboutMe, "about_me", "must be at most 1000 characters")
	}
	return v, nil
}

func validateAddress(p DraftPatch) (street, city, state, zip string, err error) {
	required := []struct {
		field string
		val   Optional[string]
		dst   *string
	}{
		{"street", p.Street, &street},
		{"city", p.City, &city},
		{"state", p.State, &state},
	}
	for _, r := range required {
		v := strings.TrimSpace(r.val.OrElse(""))
		if v == "" {
			return "", "", "", "", ErrComponentInvalid(ComponentAddress, r.field, "required")
		}
		*r.dst = v
	}

	zip = strings.TrimSpace(p.Zip.OrElse(""))
	if zip != "" && !zipPattern.MatchString(zip) {
		return "", "", "", "", ErrComponentInvalid(ComponentAddress, "zip", "must be 5 digits or 5+4 digits")
	}
	return street, city, state, zip, nil
}

func validateBirthdate(raw string, now time.Time) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", ErrComponentInvalid(ComponentBirthdate, "birthdate", "required")
	}

	var (
		t      time.Time
		parsed bool
	)
	for _, layout := range birthdateLayouts {
		if tt, err := time.Parse(layout, v); err == nil {
			t, parsed = tt, true
			break
		}
	}
	if !parsed {
		return "", ErrComponentInvalid(ComponentBirthdate, "birthdate", "not a valid date")
	}

	// The calendar day is taken in the offset the client sent.
	date := truncateDay(t)
	today := truncateDay(now.UTC())
	if date.After(today) {
		return "", ErrComponentInvalid(ComponentBirthdate, "birthdate", "cannot be in the future")
	}
	if date.Year() < MinBirthYear {
		return "", ErrComponentInvalid(ComponentBirthdate, "birthdate", "must be on or after 1900-01-01")
	}
	return date.Format(DateLayout), nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
