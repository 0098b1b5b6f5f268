package ical

// One VEVENT worth of data. Every field is optional and starts unset; the
// declaration order below is also the order the serializer writes fields
// back out, so keep it stable.
type Event struct {
	summary     string
	dtStart     *DateTime
	dtEnd       *DateTime
	description string
	location    string
	url         string
	uid         string
	status      string
	categories  []string
	class       string
	comment     string
	geo         *Geo
	alarms      []Alarm
	tzid        string
}

// Initialize a new empty Event{} struct
func NewEvent() Event {
	return Event{}
}

// #region Getters
func (e *Event) GetSummary() string {
	return e.summary
}
func (e *Event) GetStartDate() *DateTime {
	return e.dtStart
}
func (e *Event) GetEndDate() *DateTime {
	return e.dtEnd
}
func (e *Event) GetDescription() string {
	return e.description
}
func (e *Event) GetLocation() string {
	return e.location
}
func (e *Event) GetUrl() string {
	return e.url
}
func (e *Event) GetUid() string {
	return e.uid
}
func (e *Event) GetStatus() string {
	return e.status
}
func (e *Event) GetCategories() []string {
	return e.categories
}
func (e *Event) GetClass() string {
	return e.class
}
func (e *Event) GetComment() string {
	return e.comment
}
func (e *Event) GetGeo() *Geo {
	return e.geo
}

// Alarms are ordered newest-first by the order their END:VALARM markers
// were seen, the reverse of document order.
func (e *Event) GetAlarms() []Alarm {
	return e.alarms
}
func (e *Event) GetTzid() string {
	return e.tzid
}

// #endregion

// #region Setters
func (e *Event) SetSummary(summary string) *Event {
	e.summary = summary
	return e
}
func (e *Event) SetStartDate(startDate DateTime) *Event {
	e.dtStart = &startDate
	return e
}
func (e *Event) SetEndDate(endDate DateTime) *Event {
	e.dtEnd = &endDate
	return e
}
func (e *Event) SetDescription(description string) *Event {
	e.description = description
	return e
}
func (e *Event) SetLocation(location string) *Event {
	e.location = location
	return e
}
func (e *Event) SetUrl(url string) *Event {
	e.url = url
	return e
}
func (e *Event) SetUid(uid string) *Event {
	e.uid = uid
	return e
}
func (e *Event) SetStatus(status string) *Event {
	e.status = status
	return e
}
func (e *Event) SetCategories(categories []string) *Event {
	e.categories = categories
	return e
}
func (e *Event) SetClass(class string) *Event {
	e.class = class
	return e
}
func (e *Event) SetComment(comment string) *Event {
	e.comment = comment
	return e
}
func (e *Event) SetGeo(geo Geo) *Event {
	e.geo = &geo
	return e
}
func (e *Event) AddAlarm(alarm Alarm) *Event {
	e.alarms = append([]Alarm{alarm}, e.alarms...)
	return e
}
func (e *Event) SetTzid(tzid string) *Event {
	e.tzid = tzid
	return e
}

// #endregion
