package argument

import (
	"strings"

	"github.com/spf13/viper"
)

// FromEnvironment collects the given keys from environment variables named
// PREFIX_KEY (upper-cased). Keys without a matching variable are left out.
func FromEnvironment(prefix string, keys []string) *Store {
	v := viper.New()
	if prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	s := NewStore()
	for _, key := range keys {
		if !v.IsSet(key) {
			continue
		}
		s.Set(key, v.GetString(key))
	}
	return s
}
