package platform

// parseString extracts a string from decoded channel data.
func parseString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// parseBool extracts a bool from decoded channel data.
func parseBool(v any) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return false
}
