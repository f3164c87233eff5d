// Package config loads the YAML configuration document.
//
// A document is decoded strictly on top of [Default], so a file only needs
// the keys it changes:
//
//	style:
//	  title:
//	    foreground: bright_magenta
//	  example_variable:
//	    foreground: {rgb: [255, 136, 0]}
//	    underline: true
//	search:
//	  platforms: [linux, common, all]
//
// [Config.Validate] names the offending field of any unusable value in the
// "field" attribute of the returned [github.com/ardnew/tldr/pkg.ErrConfig].
package config
