package platform

const preferencesChannel = "onboarding/preferences"

// PreferencesService provides string key-value persistence backed by the
// platform's preference store (NSUserDefaults / SharedPreferences). A missing
// key is a valid, commonly-hit state, not an error.
type PreferencesService struct {
	channel *MethodChannel
}

// Preferences is the singleton preferences service.
var Preferences = &PreferencesService{
	channel: NewMethodChannel(preferencesChannel),
}

// Get returns the value for the key and whether it was present.
func (p *PreferencesService) Get(key string) (string, bool) {
	result, err := p.channel.Invoke("get", map[string]any{
		"key": key,
	})
	if err != nil {
		return "", false
	}
	m, ok := result.(map[string]any)
	if !ok {
		return "", false
	}
	if !parseBool(m["exists"]) {
		return "", false
	}
	return parseString(m["value"]), true
}

// Set stores the value under the key, overwriting any previous value.
func (p *PreferencesService) Set(key, value string) error {
	_, err := p.channel.Invoke("set", map[string]any{
		"key":   key,
		"value": value,
	})
	return err
}

// Remove deletes the key if present.
func (p *PreferencesService) Remove(key string) error {
	_, err := p.channel.Invoke("remove", map[string]any{
		"key": key,
	})
	return err
}
