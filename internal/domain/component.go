package domain

import "strings"

// Component is one of the optional profile blocks an admin can place on
// step 2 or step 3. The set is closed.
type Component string

const (
	ComponentAboutMe   Component = "ABOUT_ME"
	ComponentAddress   Component = "ADDRESS"
	ComponentBirthdate Component = "BIRTHDATE"
)

// canonical order, used when normalising partitions
var allComponents = [...]Component{ComponentAboutMe, ComponentAddress, ComponentBirthdate}

// AllComponents returns every component in canonical order.
func AllComponents() []Component {
	out := make([]Component, len(allComponents))
	copy(out, allComponents[:])
	return out
}

func (c Component) Valid() bool {
	switch c {
	case ComponentAboutMe, ComponentAddress, ComponentBirthdate:
		return true
	}
	return false
}

func (c Component) rank() int {
	for i, v := range allComponents {
		if v == c {
			return i
		}
	}
	return len(allComponents)
}

// ParseComponent accepts ABOUT_ME, about_me and aboutMe spellings.
func ParseComponent(s string) (Component, error) {
	k := strings.ToUpper(strings.TrimSpace(s))
	switch k {
	case "ABOUT_ME", "ABOUTME":
		return ComponentAboutMe, nil
	case "ADDRESS":
		return ComponentAddress, nil
	case "BIRTHDATE":
		return ComponentBirthdate, nil
	}
	return "", ErrUnknownComponent(s)
}

// ParseComponents parses a list, stopping at the first unknown name.
func ParseComponents(names []string) ([]Component, error) {
	out := make([]Component, 0, len(names))
	for _, n := range names {
		c, err := ParseComponent(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ComponentNames is the inverse of ParseComponents.
func ComponentNames(cs []Component) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}
