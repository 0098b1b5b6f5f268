package ical

import (
	"fmt"
	"strings"
)

// A reminder attached to an event, immutable once finalized. While its
// VALARM block is still open the data lives in a PartialAlarm instead.
type Alarm struct {
	uid         string
	trigger     string
	action      string
	description string
}

// #region Getters
func (a *Alarm) GetUid() string {
	return a.uid
}
func (a *Alarm) GetTrigger() string {
	return a.trigger
}

// DISPLAY is what feeds mean when they leave the action out
func (a *Alarm) GetAction() string {
	if a.action == "" {
		return "DISPLAY"
	}
	return a.action
}
func (a *Alarm) GetDescription() string {
	return a.description
}

// #endregion

// Write the alarm as one BEGIN:VALARM block. The UID line only shows up
// when set; TRIGGER values already carrying a value-type prefix (anything
// with a colon in it) are written as-is, bare durations get a plain colon;
// ACTION falls back to DISPLAY and DESCRIPTION is always written, empty or
// not.
func (a *Alarm) ToIcal(writer func(string)) {
	writer("BEGIN:VALARM\n")
	if a.uid != "" {
		writer(fmt.Sprintf("UID:%s\n", a.uid))
	}
	if strings.Contains(a.trigger, ":") {
		writer(fmt.Sprintf("TRIGGER%s\n", a.trigger))
	} else {
		writer(fmt.Sprintf("TRIGGER:%s\n", a.trigger))
	}
	writer(fmt.Sprintf("ACTION:%s\n", a.GetAction()))
	writer(fmt.Sprintf("DESCRIPTION:%s\n", a.description))
	writer("END:VALARM\n")
}

// The in-progress, mutable form of an Alarm. Fields arrive incrementally
// and in arbitrary order while the block is open.
type PartialAlarm struct {
	uid         string
	trigger     string
	action      string
	description string
}

func NewPartialAlarm() *PartialAlarm {
	return &PartialAlarm{}
}

// #region Setters
func (pa *PartialAlarm) SetUid(uid string) *PartialAlarm {
	pa.uid = uid
	return pa
}
func (pa *PartialAlarm) SetTrigger(trigger string) *PartialAlarm {
	pa.trigger = trigger
	return pa
}
func (pa *PartialAlarm) SetAction(action string) *PartialAlarm {
	pa.action = action
	return pa
}
func (pa *PartialAlarm) SetDescription(description string) *PartialAlarm {
	pa.description = description
	return pa
}

// #endregion

// Store a property captured inside an open VALARM block under its downcased
// key. Only the four fields an Alarm can hold survive; any other name is
// dropped right here.
func (pa *PartialAlarm) setField(name string, value string) {
	switch name {
	case "uid":
		pa.uid = value
	case "trigger":
		pa.trigger = value
	case "action":
		pa.action = value
	case "description":
		pa.description = value
	}
}

// Seal the builder into its immutable form.
func (pa *PartialAlarm) Finalize() Alarm {
	return Alarm{
		uid:         pa.uid,
		trigger:     pa.trigger,
		action:      pa.action,
		description: pa.description,
	}
}
