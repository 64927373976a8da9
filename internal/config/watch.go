package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Watch loads the configuration at configPath and keeps watching the file.
// Every time the file changes, the re-read configuration is passed to
// onChange; decoding failures are passed to onError instead.
func Watch(configPath string, onChange func(*Configuration), onError func(error)) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	v.OnConfigChange(func(event fsnotify.Event) {
		updated, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("reloading %s: %w", event.Name, err))
			}
			return
		}
		if onChange != nil {
			onChange(updated)
		}
	})
	v.WatchConfig()

	return conf, nil
}
