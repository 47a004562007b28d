//go:build imageinfo_plugin
// +build imageinfo_plugin

package main

import "titlebot/pkg/plugins/imageinfo"

// Plugin is looked up by the bot after plugin.Open.
var Plugin imageinfo.Plugin
