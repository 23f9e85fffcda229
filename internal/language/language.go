package language

import (
	"fmt"
	"sort"
	"strings"

	xlang "golang.org/x/text/language"
)

// ID identifies a classified fragment language. None means "nothing to translate".
type ID string

const (
	None    ID = ""
	English ID = "english"
	Chinese ID = "chinese"
)

// Language describes one of the two supported lookup languages.
type Language struct {
	ID   ID
	Code string // short code used by remote endpoints (en, zh)
	Name string
	Tag  xlang.Tag
}

// Languages is a map of supported languages ID -> Language.
var Languages = map[ID]Language{
	English: {ID: English, Code: "en", Name: "English", Tag: xlang.English},
	Chinese: {ID: Chinese, Code: "zh", Name: "Chinese (Simplified)", Tag: xlang.SimplifiedChinese},
}

// Code returns the endpoint code for id, or "" for None.
func (id ID) Code() string {
	return Languages[id].Code
}

func (id ID) String() string {
	if id == None {
		return "none"
	}
	return string(id)
}

// Target is the language a fragment of id is translated into.
func (id ID) Target() ID {
	switch id {
	case English:
		return Chinese
	case Chinese:
		return English
	default:
		return None
	}
}

// Parse resolves an ID, a name or a BCP 47 tag such as "zh-CN" to a supported language.
func Parse(input string) (Language, bool) {
	needle := strings.TrimSpace(input)
	if needle == "" {
		return Language{}, false
	}
	for _, l := range Languages {
		if strings.EqualFold(string(l.ID), needle) || strings.EqualFold(l.Name, needle) || strings.EqualFold(l.Code, needle) {
			return l, true
		}
	}
	tag, err := xlang.Parse(needle)
	if err != nil {
		return Language{}, false
	}
	base, _ := tag.Base()
	for _, l := range Languages {
		if b, _ := l.Tag.Base(); b == base {
			return l, true
		}
	}
	return Language{}, false
}

// SupportedLabel lists the accepted IDs and codes, e.g. for flag help.
func SupportedLabel() string {
	names := make([]string, 0, len(Languages))
	for _, l := range Languages {
		names = append(names, fmt.Sprintf("%s (%s)", l.ID, l.Code))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
