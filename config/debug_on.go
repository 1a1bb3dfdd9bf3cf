//go:build debug

package config

const debugBuild = true
