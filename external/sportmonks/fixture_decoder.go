package sportmonks

import (
	"github.com/riskibarqy/football-etl/internal/domain/fixture"
	"github.com/riskibarqy/football-etl/internal/domain/reference"
)

// Decoder maps raw provider payloads into domain documents. It holds no
// state; the methods wrap the package-level decode functions so services
// can take it as a dependency.
type Decoder struct{}

func (Decoder) DecodeFixture(raw []byte) (fixture.Document, error) {
	return DecodeFixture(raw)
}

// DecodeFixture maps one fixture payload into a Document. A payload with a
// wrong-shaped section fails as a whole; the returned Document then still
// carries the fixture id when it could be read.
func DecodeFixture(raw []byte) (fixture.Document, error) {
	var doc fixture.Document

	root, err := parseNode("fixture", raw)
	if err != nil {
		return doc, err
	}
	doc.Fixture.ID = peekID(root)

	var fields fixtureFields
	if err := decodeInto("fixture", raw, &fields); err != nil {
		return doc, err
	}
	doc.Fixture = fields.record()

	d := fixtureDecoder{root: root, doc: &doc}
	steps := []func() error{
		d.league,
		d.venue,
		d.state,
		d.participants,
		d.scores,
		d.events,
		d.statistics,
		d.sidelines,
		d.weather,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return doc, err
		}
	}
	return doc, nil
}

type fixtureDecoder struct {
	root node
	doc  *fixture.Document
}

func (d *fixtureDecoder) fixtureID() int64 {
	return d.doc.Fixture.ID
}

func (d *fixtureDecoder) league() error {
	f, err := decodeObject[leagueFields](d.root, "fixture", "league")
	if err != nil || f == nil {
		return err
	}
	league := f.record()
	d.doc.League = &league
	d.doc.Fixture.LeagueID = fillID(d.doc.Fixture.LeagueID, league.ID)
	return nil
}

func (d *fixtureDecoder) venue() error {
	f, err := decodeObject[venueFields](d.root, "fixture", "venue")
	if err != nil || f == nil {
		return err
	}
	venue := f.record()
	d.doc.Venue = &venue
	d.doc.Fixture.VenueID = fillID(d.doc.Fixture.VenueID, venue.ID)
	return nil
}

func (d *fixtureDecoder) state() error {
	f, err := decodeObject[stateFields](d.root, "fixture", "state")
	if err != nil || f == nil {
		return err
	}
	state := f.record()
	d.doc.State = &state
	d.doc.Fixture.StateID = fillID(d.doc.Fixture.StateID, state.ID)
	return nil
}

func (d *fixtureDecoder) participants() error {
	const section = "fixture.participants"
	items, err := d.root.list("fixture", "participants")
	if err != nil {
		return err
	}
	for i, item := range items {
		path := indexPath(section, i)
		n, err := parseNode(path, item)
		if err != nil {
			return err
		}
		var tf teamFields
		if err := decodeInto(path, item, &tf); err != nil {
			return err
		}
		meta, err := decodeObject[participantMeta](n, path, "meta")
		if err != nil {
			return err
		}

		team := tf.record()
		link := fixture.Participant{FixtureID: d.fixtureID(), TeamID: team.ID}
		if meta != nil {
			link.Location = meta.Location.Ptr()
			link.Winner = meta.Winner.Ptr()
			link.Position = meta.Position.Ptr()
		}
		d.doc.Participants = append(d.doc.Participants, fixture.ParticipantEntry{Team: team, Link: link})
	}
	return nil
}

func (d *fixtureDecoder) scores() error {
	const section = "fixture.scores"
	items, err := d.root.list("fixture", "scores")
	if err != nil {
		return err
	}
	for i, item := range items {
		path := indexPath(section, i)
		n, err := parseNode(path, item)
		if err != nil {
			return err
		}
		var sf scoreFields
		if err := decodeInto(path, item, &sf); err != nil {
			return err
		}
		value, err := decodeObject[scoreValue](n, path, "score")
		if err != nil {
			return err
		}

		score := fixture.Score{
			ID:            sf.ID.ID(),
			FixtureID:     orID(sf.FixtureID, d.fixtureID()),
			TypeID:        sf.TypeID.Ptr(),
			ParticipantID: sf.ParticipantID.Ptr(),
			Description:   sf.Description.Ptr(),
		}
		if value != nil {
			score.Goals = value.Goals.Ptr()
			score.Participant = value.Participant.Ptr()
		}
		d.doc.Scores = append(d.doc.Scores, score)
	}
	return nil
}

func (d *fixtureDecoder) events() error {
	const section = "fixture.events"
	items, err := d.root.list("fixture", "events")
	if err != nil {
		return err
	}
	for i, item := range items {
		path := indexPath(section, i)
		n, err := parseNode(path, item)
		if err != nil {
			return err
		}
		var ef eventFields
		if err := decodeInto(path, item, &ef); err != nil {
			return err
		}
		entry := fixture.EventEntry{Event: ef.record()}
		entry.Event.FixtureID = orID(ef.FixtureID, d.fixtureID())

		typ, err := decodeObject[typeFields](n, path, "type")
		if err != nil {
			return err
		}
		if typ != nil {
			rec := typ.record(reference.TypeKindEvent)
			entry.Type = &rec
			entry.Event.TypeID = fillID(entry.Event.TypeID, rec.ID)
		}

		period, err := decodeObject[periodFields](n, path, "period")
		if err != nil {
			return err
		}
		if period != nil {
			rec := period.record()
			if rec.FixtureID == 0 {
				rec.FixtureID = d.fixtureID()
			}
			entry.Period = &rec
			entry.Event.PeriodID = fillID(entry.Event.PeriodID, rec.ID)
		}

		player, err := decodeObject[playerFields](n, path, "player")
		if err != nil {
			return err
		}
		if player != nil {
			rec := player.record()
			entry.Player = &rec
			entry.Event.PlayerID = fillID(entry.Event.PlayerID, rec.ID)
		}

		d.doc.Events = append(d.doc.Events, entry)
	}
	return nil
}

func (d *fixtureDecoder) statistics() error {
	const section = "fixture.statistics"
	items, err := d.root.list("fixture", "statistics")
	if err != nil {
		return err
	}
	for i, item := range items {
		path := indexPath(section, i)
		n, err := parseNode(path, item)
		if err != nil {
			return err
		}
		var sf statisticFields
		if err := decodeInto(path, item, &sf); err != nil {
			return err
		}
		value, err := decodeObject[statisticValue](n, path, "data")
		if err != nil {
			return err
		}

		entry := fixture.StatisticEntry{Statistic: fixture.TeamStatistic{
			ID:         sf.ID.ID(),
			FixtureID:  orID(sf.FixtureID, d.fixtureID()),
			TeamID:     sf.ParticipantID.Ptr(),
			StatTypeID: sf.TypeID.Ptr(),
			Location:   sf.Location.Ptr(),
		}}
		if value != nil {
			entry.Statistic.Value = value.Value.Ptr()
		}

		typ, err := decodeObject[typeFields](n, path, "type")
		if err != nil {
			return err
		}
		if typ != nil {
			rec := typ.record(reference.TypeKindStat)
			entry.Type = &rec
			entry.Statistic.StatTypeID = fillID(entry.Statistic.StatTypeID, rec.ID)
		}

		d.doc.Statistics = append(d.doc.Statistics, entry)
	}
	return nil
}

func (d *fixtureDecoder) sidelines() error {
	const section = "fixture.sidelined"
	items, err := d.root.list("fixture", "sidelined")
	if err != nil {
		return err
	}
	for i, item := range items {
		path := indexPath(section, i)
		n, err := parseNode(path, item)
		if err != nil {
			return err
		}
		var lf fixtureSidelineFields
		if err := decodeInto(path, item, &lf); err != nil {
			return err
		}
		entry := fixture.SidelineEntry{Link: fixture.FixtureSideline{
			ID:            lf.ID.ID(),
			FixtureID:     orID(lf.FixtureID, d.fixtureID()),
			SidelineID:    lf.SidelineID.Ptr(),
			ParticipantID: lf.ParticipantID.Ptr(),
		}}

		sideNode, ok, err := n.object(path, "sideline")
		if err != nil {
			return err
		}
		if ok {
			sidePath := joinPath(path, "sideline")
			var sf sidelineFields
			if err := sideNode.into(sidePath, &sf); err != nil {
				return err
			}
			sideline := sf.record()
			sideline.TeamID = fillPtr(sideline.TeamID, entry.Link.ParticipantID)

			typ, err := decodeObject[typeFields](sideNode, sidePath, "type")
			if err != nil {
				return err
			}
			if typ != nil {
				rec := typ.record(reference.TypeKindSideline)
				entry.Type = &rec
				sideline.TypeID = fillID(sideline.TypeID, rec.ID)
			}

			player, err := decodeObject[playerFields](sideNode, sidePath, "player")
			if err != nil {
				return err
			}
			if player != nil {
				rec := player.record()
				entry.Player = &rec
				sideline.PlayerID = fillID(sideline.PlayerID, rec.ID)
			}

			entry.Sideline = &sideline
			entry.Link.SidelineID = fillID(entry.Link.SidelineID, sideline.ID)
		}

		d.doc.Sidelines = append(d.doc.Sidelines, entry)
	}
	return nil
}

func (d *fixtureDecoder) weather() error {
	key := d.root.first("weatherreport", "weatherReport", "weather_report")
	n, ok, err := d.root.object("fixture", key)
	if err != nil || !ok {
		return err
	}
	path := joinPath("fixture", key)

	var wf weatherFields
	if err := n.into(path, &wf); err != nil {
		return err
	}
	report := fixture.WeatherReport{
		ID:          wf.ID.ID(),
		FixtureID:   orID(wf.FixtureID, d.fixtureID()),
		VenueID:     fillPtr(wf.VenueID.Ptr(), d.doc.Fixture.VenueID),
		Humidity:    wf.Humidity.Ptr(),
		Pressure:    wf.Pressure.Ptr(),
		Clouds:      wf.Clouds.Ptr(),
		Description: wf.Description.Ptr(),
		Icon:        wf.Icon.Ptr(),
		Type:        wf.Type.Ptr(),
		Metric:      wf.Metric.Ptr(),
	}

	temperature, err := decodeObject[dayParts](n, path, "temperature")
	if err != nil {
		return err
	}
	if temperature != nil {
		report.TemperatureDay = temperature.Day.Ptr()
		report.TemperatureMorning = temperature.Morning.Ptr()
		report.TemperatureEvening = temperature.Evening.Ptr()
		report.TemperatureNight = temperature.Night.Ptr()
	}

	feelsLike, err := decodeObject[dayParts](n, path, "feels_like")
	if err != nil {
		return err
	}
	if feelsLike != nil {
		report.FeelsLikeDay = feelsLike.Day.Ptr()
		report.FeelsLikeMorning = feelsLike.Morning.Ptr()
		report.FeelsLikeEvening = feelsLike.Evening.Ptr()
		report.FeelsLikeNight = feelsLike.Night.Ptr()
	}

	wind, err := decodeObject[windFields](n, path, "wind")
	if err != nil {
		return err
	}
	if wind != nil {
		report.WindSpeed = wind.Speed.Ptr()
		report.WindDirection = wind.Direction.Ptr()
	}

	current, err := decodeObject[currentWeather](n, path, "current")
	if err != nil {
		return err
	}
	if current != nil {
		report.CurrentTemp = current.Temp.Ptr()
		report.CurrentWind = current.Wind.Ptr()
		report.CurrentClouds = current.Clouds.Ptr()
		report.CurrentHumidity = current.Humidity.Ptr()
		report.CurrentPressure = current.Pressure.Ptr()
		report.CurrentDirection = current.Direction.Ptr()
		report.CurrentFeelsLike = current.FeelsLike.Ptr()
		report.CurrentDescription = current.Description.Ptr()
	}

	d.doc.Weather = &report
	return nil
}

// decodeObject reads the optional sub-object at key into T. It returns nil
// when the key is absent or null.
func decodeObject[T any](n node, path, key string) (*T, error) {
	obj, ok, err := n.object(path, key)
	if err != nil || !ok {
		return nil, err
	}
	var out T
	if err := obj.into(joinPath(path, key), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// peekID reads the top-level id without failing on the rest of the payload.
func peekID(n node) int64 {
	raw, ok := n["id"]
	if !ok {
		return 0
	}
	var id optInt
	if err := id.UnmarshalJSON(raw); err != nil {
		return 0
	}
	return id.ID()
}

// fillID keeps current when set, otherwise takes the embedded record's id.
func fillID(current *int64, embedded int64) *int64 {
	if current != nil || embedded == 0 {
		return current
	}
	return &embedded
}

func fillPtr(current, fallback *int64) *int64 {
	if current != nil || fallback == nil {
		return current
	}
	v := *fallback
	return &v
}

func orID(v optInt, fallback int64) int64 {
	if v.ID() != 0 {
		return v.ID()
	}
	return fallback
}
