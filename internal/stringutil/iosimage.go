package stringutil

import (
	"path"
	"regexp"
)

var iosImageSuffixRe = regexp.MustCompile(`(@[0-9]+(?:\.[0-9]+)?x)?(~[A-Za-z]+)?$`)

// NormalizeIOSImageName strips the trailing (@<scalar>x)?(~<device>)? suffix
// and the file extension, so "icon@2x~ipad.png" normalizes to "icon" the
// same as plain "icon.png".
func NormalizeIOSImageName(name string) string {
	ext := path.Ext(name)
	base := name[:len(name)-len(ext)]
	loc := iosImageSuffixRe.FindStringIndex(base)
	if loc == nil {
		return base
	}
	return base[:loc[0]]
}
