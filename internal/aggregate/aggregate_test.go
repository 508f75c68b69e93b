package aggregate

import (
	"testing"

	"github.com/ppiankov/edgarscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	key, kind string
	n         int
}

func TestCount_ExcludesEmptyKeys(t *testing.T) {
	rows := []row{{"CA", "a", 1}, {"", "a", 1}, {"NY", "b", 2}, {"CA", "b", 3}}

	got := Count(rows, func(r row) string { return r.key })
	assert.Equal(t, []Group{{"CA", 2}, {"NY", 1}}, got)

	sum := Sum(rows, func(r row) string { return r.key }, func(r row) int { return r.n })
	assert.Equal(t, []Group{{"CA", 4}, {"NY", 2}}, sum)

	flags := SumFlag(rows, func(r row) string { return r.key }, func(r row) bool { return r.kind == "b" })
	assert.Equal(t, []Group{{"CA", 1}, {"NY", 1}}, flags)
}

func TestCountPairs_TieBreakFirstSeen(t *testing.T) {
	rows := []row{
		{key: "1", kind: "Other Events"},
		{key: "2", kind: "Regulation FD"},
		{key: "1", kind: "Delisting"},
		{key: "2", kind: "Regulation FD"},
		{key: "1", kind: "Other Events"},
		{key: "", kind: "Other Events"},
		{key: "3", kind: "Delisting"},
	}

	got := CountPairs(rows, func(r row) string { return r.key }, func(r row) string { return r.kind })

	assert.Equal(t, []model.PairCount{
		{Key: "1", Secondary: "Other Events", Count: 2},
		{Key: "2", Secondary: "Regulation FD", Count: 2},
		{Key: "1", Secondary: "Delisting", Count: 1},
		{Key: "3", Secondary: "Delisting", Count: 1},
	}, got)
}

func TestPeakAndSorting(t *testing.T) {
	groups := []Group{{"20210127", 2}, {"20210105", 5}, {"20210301", 5}}

	peak, ok := Peak(groups)
	require.True(t, ok)
	assert.Equal(t, Group{"20210105", 5}, peak)

	_, ok = Peak(nil)
	assert.False(t, ok)

	assert.Equal(t, "20210105", ByKey(append([]Group(nil), groups...))[0].Key)
	assert.Equal(t, []Group{{"20210105", 5}, {"20210301", 5}, {"20210127", 2}}, ByValueDesc(append([]Group(nil), groups...)))
}

func enriched(acc, entity, state, form string) model.EnrichedRecord {
	return model.EnrichedRecord{
		FilingRecord: model.FilingRecord{AccessionID: acc, EntityID: entity, FormType: form},
		State:        state,
	}
}

func TestStateRollup_EndToEndScenario(t *testing.T) {
	records := []model.EnrichedRecord{
		enriched("a", "1", "CA", "10-K"),
		enriched("b", "2", "", "10-K"),
		enriched("c", "3", "CA", "10-K"),
	}
	facts := model.FactSet{}
	facts.Add(model.Fact{AccessionID: "a", Kind: model.FactAISentences, Items: []string{"We use Artificial Intelligence."}, Found: true})
	facts.Add(model.Fact{AccessionID: "b", Kind: model.FactAISentences, Items: []string{"Artificial intelligence helps."}, Found: true})
	facts.Add(model.Fact{AccessionID: "c", Kind: model.FactAISentences, Items: []string{}, Found: false})

	aiTotal := SumFlag(records, func(model.EnrichedRecord) string { return "all" }, func(r model.EnrichedRecord) bool {
		return facts.Flag(r.AccessionID, model.FactAISentences)
	})
	assert.Equal(t, []Group{{"all", 2}}, aiTotal)

	table := StateRollup(records, facts)
	assert.Equal(t, 2.0, table.Get("CA", MetricTotalFilings))
	assert.Equal(t, 1.0, table.Get("CA", MetricAIFilings))

	m := table.Model()
	assert.Equal(t, "by_state", m.Name)
	assert.Len(t, m.Rows, 2)
}

func TestEntityRollup(t *testing.T) {
	records := []model.EnrichedRecord{
		enriched("a", "719739", "DE", "8-K"),
		enriched("b", "719739", "DE", "8-K"),
		enriched("c", "1411579", "DE", "4"),
	}
	facts := model.FactSet{}
	facts.Add(model.Fact{AccessionID: "a", Kind: model.FactBankruptcyCount, Count: 3, Found: true})
	facts.Add(model.Fact{AccessionID: "b", Kind: model.FactBankruptcyCount, Count: 4, Found: true})
	facts.Add(model.Fact{AccessionID: "c", Kind: model.FactIsOfficer, Text: "1", Found: true})

	table := EntityRollup(records, facts)

	assert.Equal(t, 2.0, table.Get("719739", MetricFilings))
	assert.Equal(t, 7.0, table.Get("719739", MetricBankruptcyMentions))
	assert.Equal(t, 0.0, table.Get("719739", MetricOfficerFilings))
	assert.Equal(t, 1.0, table.Get("1411579", MetricOfficerFilings))
}

func TestTopicAnalyses(t *testing.T) {
	records := []model.EnrichedRecord{
		enriched("a", "719739", "", "8-K"),
		enriched("b", "719739", "", "8-K"),
		enriched("c", "834285", "", "8-K"),
		enriched("d", "834285", "", "8-K"),
	}
	facts := model.FactSet{}
	add := func(acc, first string, all []string, filed string) {
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactFirstTopic, Text: first, Found: first != "Unknown"})
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactAllTopics, Items: all, Found: len(all) > 0})
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactFiledDate, Text: filed, Found: filed != ""})
	}
	add("a", "Other Events", []string{"Other Events"}, "20230301")
	add("b", "Notice of Delisting or Failure", []string{"Notice of Delisting or Failure"}, "20230317")
	add("c", "Other Events", []string{"Other Events", "Notice of Delisting or Failure"}, "20230313")
	add("d", "Unknown", nil, "")

	topics := TopicFrequencies(records, facts)
	require.Len(t, topics, 4)
	assert.Equal(t, model.PairCount{Key: "719739", Secondary: "Other Events", Count: 1}, topics[0])
	assert.Equal(t, "Unknown", topics[3].Secondary)

	assert.Equal(t, []EntityDates{{EntityID: "719739", Dates: []string{"20230317"}}}, DelistingDates(records, facts, false))
	assert.Equal(t, []EntityDates{
		{EntityID: "719739", Dates: []string{"20230317"}},
		{EntityID: "834285", Dates: []string{"20230313"}},
	}, DelistingDates(records, facts, true))
}

func TestInsiderAnalyses(t *testing.T) {
	records := []model.EnrichedRecord{
		enriched("a", "1411579", "", "4"),
		enriched("b", "1411579", "", "4"),
		enriched("c", "1411579", "", "4"),
		enriched("d", "1411579", "", "4"),
	}
	facts := model.FactSet{}
	add := func(acc, officer, title, code, date string) {
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactIsOfficer, Text: officer, Found: officer != ""})
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactOfficerTitle, Text: title, Found: title != "UNKNOWN"})
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactTransactionCode, Text: code, Found: code != ""})
		facts.Add(model.Fact{AccessionID: acc, Kind: model.FactTransactionDate, Text: date, Found: date != ""})
	}
	add("a", "1", "EVP CFO", "D", "20210127")
	add("b", "1", "CEO", "D", "20210105")
	add("c", "1", "EVP CFO", "A", "20210105")
	add("d", "0", "", "D", "20210105")

	assert.Equal(t, []Group{{"EVP CFO", 2}, {"CEO", 1}}, OfficerTitleFrequencies(records, facts))
	assert.Equal(t, []Group{{"20210105", 1}, {"20210127", 1}}, DisposedByDate(records, facts))
	assert.Equal(t, []model.PairCount{{Key: "1411579", Secondary: "4", Count: 4}}, FormFrequencies(records))
}

func TestTableHelpers(t *testing.T) {
	tbl := NewTable("x")
	tbl.Add("", "m", 1)
	tbl.Add("g", "m", 1)
	tbl.Add("g", "m", 2)
	assert.Equal(t, 3.0, tbl.Get("g", "m"))
	assert.Len(t, tbl.Model().Rows, 1)

	pt := PairTable("pairs", []model.PairCount{{Key: "1", Secondary: "8-K", Count: 2}})
	assert.Equal(t, model.AggregateRow{GroupKey: "1", Metric: "8-K", Value: 2}, pt.Rows[0])

	gt := GroupTable("titles", "filings", []Group{{"CEO", 3}})
	assert.Equal(t, model.AggregateRow{GroupKey: "CEO", Metric: "filings", Value: 3}, gt.Rows[0])
}
