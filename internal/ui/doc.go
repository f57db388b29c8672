package ui

// Package ui contains the Fyne desktop window. It renders the application state
// owned by app.Controller and polls the controller once per frame from a ticker,
// scheduling every poll on the Fyne main goroutine with fyne.Do.
