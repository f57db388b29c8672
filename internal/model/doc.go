package model

// Package model defines the domain data structures shared by the worker side and
// the interface side: media metadata, format choice, progress and log lines, the
// events that cross the operation channel, and the application state machine.
// State transitions happen only through Reduce.
