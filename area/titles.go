package area

// Titles holds the header text of a field, one entry per header row. In
// YAML it is either a single string or a list of strings.
type Titles []string

// UnmarshalYAML implements the go-yaml interface unmarshaler.
func (t *Titles) UnmarshalYAML(unmarshal func(any) error) error {
	var one string
	if err := unmarshal(&one); err == nil {
		*t = Titles{one}

		return nil
	}

	var many []string
	if err := unmarshal(&many); err != nil {
		return ErrDecode.Wrap(err).With(attrValue("title"))
	}

	*t = many

	return nil
}
