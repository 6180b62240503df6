package fixture

import "github.com/riskibarqy/football-etl/internal/domain/reference"

// Document is one decoded fixture payload with its embedded sub-records.
// Nil pointers and empty slices mean the section was absent.
type Document struct {
	Fixture      Fixture
	League       *reference.League
	Venue        *reference.Venue
	State        *reference.State
	Participants []ParticipantEntry
	Scores       []Score
	Events       []EventEntry
	Statistics   []StatisticEntry
	Sidelines    []SidelineEntry
	Weather      *WeatherReport
}

// ParticipantEntry pairs the team stub with its fixture link.
type ParticipantEntry struct {
	Team reference.Team
	Link Participant
}

type EventEntry struct {
	Event  Event
	Type   *reference.Type
	Period *Period
	Player *reference.Player
}

type StatisticEntry struct {
	Statistic TeamStatistic
	Type      *reference.Type
}

type SidelineEntry struct {
	Link     FixtureSideline
	Sideline *Sideline
	Type     *reference.Type
	Player   *reference.Player
}
