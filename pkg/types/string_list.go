package types

// StringList is a jsonb-serialized list of free-form tags.
type StringList []string
