package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const profileEnv = "TODOCTL_PROFILE"

// profile 客户端配置文件（TOML），命令行参数优先
//
//	addr = "http://localhost:5000"
//	timeout = "5s"
//	watch_interval = "2s"
type profile struct {
	Addr          string   `toml:"addr"`
	Timeout       duration `toml:"timeout"`
	WatchInterval duration `toml:"watch_interval"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func defaultProfile() profile {
	return profile{
		Timeout:       duration{10 * time.Second},
		WatchInterval: duration{2 * time.Second},
	}
}

func defaultProfilePath() string {
	if p := os.Getenv(profileEnv); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "todoctl.toml")
}

// loadProfile 文件不存在时返回默认值；explicit 为 true 时文件必须存在
func loadProfile(path string, explicit bool) (profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}

	meta, err := toml.DecodeFile(path, &p)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return defaultProfile(), nil
		}
		return p, fmt.Errorf("load profile %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return p, fmt.Errorf("load profile %s: unknown keys %v", path, undecoded)
	}
	if p.Timeout.Duration <= 0 || p.WatchInterval.Duration <= 0 {
		return p, fmt.Errorf("load profile %s: timeout and watch_interval must be positive", path)
	}
	return p, nil
}
