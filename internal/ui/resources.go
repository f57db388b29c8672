package ui

import (
	"fyne.io/fyne/v2"
)

const (
	AppIcon = "yt-grabber.png"
)

// LoadLogoResource loads the logo from the working directory.
func LoadLogoResource() (fyne.Resource, error) {
	return fyne.LoadResourceFromPath(AppIcon)
}
