package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMoneyJSON(t *testing.T) {
	var p struct {
		Amount Money `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 1500.5}`), &p))
	assert.Equal(t, Money(150050), p.Amount)

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "99.999"}`), &p))
	assert.Equal(t, Money(10000), p.Amount, "rounds to the nearest cent")

	assert.Error(t, json.Unmarshal([]byte(`{"amount": "abc"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"amount": true}`), &p))

	out, err := json.Marshal(struct {
		Amount Money `json:"amount"`
	}{Money(150050)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount": 1500.5}`, string(out))

	assert.Equal(t, "1500.50", Money(150050).String())
}

func TestMoneySumIsExact(t *testing.T) {
	var total Money
	for i := 0; i < 10; i++ {
		m, err := ParseMoney(0.1)
		require.NoError(t, err)
		total += m
	}
	assert.Equal(t, Money(100), total)
}

func TestCreateUserRequestValidate(t *testing.T) {
	req := CreateUserRequest{FullName: "  Ayşe Yılmaz ", Username: " ayse ", Password: "secret1", Role: "Editör"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Ayşe Yılmaz", req.FullName)
	assert.Equal(t, "ayse", req.Username)

	bad := []CreateUserRequest{
		{Username: "ayse", Password: "secret1", Role: "editor"},
		{FullName: "A", Username: "a", Password: "secret1", Role: "editor"},
		{FullName: "A", Username: "ay se", Password: "secret1", Role: "editor"},
		{FullName: "A", Username: "ayse", Password: "123", Role: "editor"},
		{FullName: "A", Username: "ayse", Password: "secret1"},
	}
	for i, r := range bad {
		assert.Error(t, r.Validate(), "case %d", i)
	}
}

func TestUpdateUserRequestIgnoresEmptyPassword(t *testing.T) {
	req := UpdateUserRequest{Password: ptr("")}
	require.NoError(t, req.Validate())
	assert.Nil(t, req.Password)

	req = UpdateUserRequest{Password: ptr("abc")}
	assert.Error(t, req.Validate())
}

func TestCreateCompanyRequestDefaults(t *testing.T) {
	req := CreateCompanyRequest{Name: "Acme", Username: "acme", Password: "secret1"}
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultBrandColor, req.BrandColorHex)

	req.BrandColorHex = "green"
	assert.Error(t, req.Validate())
}

func TestCreatePostRequestFeedRules(t *testing.T) {
	main := CreatePostRequest{Title: "Hi", TargetCompany: ptr("c1")}
	require.NoError(t, main.Validate())
	assert.Equal(t, FeedMain, main.FeedType)
	assert.Nil(t, main.TargetCompany, "main feed posts have no target")

	company := CreatePostRequest{Title: "Hi", FeedType: FeedCompany}
	assert.Error(t, company.Validate(), "company feed needs a target")

	company.TargetCompany = ptr("c1")
	assert.NoError(t, company.Validate())

	unknown := CreatePostRequest{Title: "Hi", FeedType: "news"}
	assert.Error(t, unknown.Validate())
}

func TestCreateEventRequestValidate(t *testing.T) {
	req := CreateEventRequest{
		Title:           "Shoot",
		Date:            "2025-03-14",
		StartTime:       "09:00",
		EndTime:         "11:30",
		AssignedEditors: []string{"u1", "u1", " ", "u2"},
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, EventPersonal, req.Type)
	assert.Equal(t, []string{"u1", "u2"}, req.AssignedEditors)

	cases := map[string]CreateEventRequest{
		"bad date":    {Title: "x", Date: "14.03.2025"},
		"bad clock":   {Title: "x", Date: "2025-03-14", StartTime: "9am"},
		"end first":   {Title: "x", Date: "2025-03-14", StartTime: "10:00", EndTime: "09:00"},
		"bad type":    {Title: "x", Date: "2025-03-14", Type: "public"},
		"bad color":   {Title: "x", Date: "2025-03-14", ColorHex: ptr("red")},
		"empty title": {Date: "2025-03-14"},
	}
	for name, r := range cases {
		assert.Error(t, r.Validate(), name)
	}
}

func TestUpdateEventRequestApply(t *testing.T) {
	e := CalendarEvent{Title: "a", Date: "2025-03-14", StartTime: "09:00", EndTime: "10:00",
		AssignedCompany: ptr("c1"), ColorHex: ptr("#112233")}

	req := UpdateEventRequest{EndTime: ptr("12:00"), AssignedCompany: ptr(""), ColorHex: ptr("")}
	require.NoError(t, req.Apply(&e))
	assert.Equal(t, "12:00", e.EndTime)
	assert.Nil(t, e.AssignedCompany)
	assert.Nil(t, e.ColorHex)

	req = UpdateEventRequest{StartTime: ptr("13:00")}
	assert.Error(t, req.Apply(&e), "start after end")
}

func TestProfitAndPaymentParsing(t *testing.T) {
	pt, err := ParseProfitType("Income")
	require.NoError(t, err)
	assert.Equal(t, ProfitIncome, pt)
	_, err = ParseProfitType("loss")
	assert.Error(t, err)

	req := CreatePaymentRequest{CompanyID: "c1", Title: "Retainer", Amount: 100, Date: "2025-03-01"}
	status, err := req.Validate()
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, status)

	req.Status = "paid"
	status, err = req.Validate()
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, status)

	req.Amount = 0
	_, err = req.Validate()
	assert.Error(t, err)
}

func TestDateRange(t *testing.T) {
	assert.NoError(t, DateRange{}.Validate())
	assert.NoError(t, DateRange{Start: "2025-01-01", End: "2025-01-31"}.Validate())
	assert.Error(t, DateRange{Start: "2025-02-01", End: "2025-01-31"}.Validate())
	assert.Error(t, DateRange{Start: "2025-13-01"}.Validate())

	r := DateRange{Start: "2025-01-01", End: "2025-01-31"}
	assert.True(t, r.Contains("2025-01-31"), "end is inclusive")
	assert.False(t, r.Contains("2025-02-01"))
}

func TestContactEmail(t *testing.T) {
	addr, ok := ContactEmail("Ayşe Hanım, ayse@acme.test, 0555 000 00 00")
	assert.True(t, ok)
	assert.Equal(t, "ayse@acme.test", addr)

	_, ok = ContactEmail("0555 000 00 00")
	assert.False(t, ok)
}

func TestUpdateVisualsRequestApply(t *testing.T) {
	v := DefaultVisuals()
	req := UpdateVisualsRequest{LogoWidth: ptr(200), AccentColor: ptr("#ff00aa")}
	require.NoError(t, req.Apply(&v))
	assert.Equal(t, 200, v.LogoWidth)
	assert.Equal(t, "#ff00aa", v.AccentColor)

	assert.Error(t, (&UpdateVisualsRequest{LogoHeight: ptr(5)}).Apply(&v))
	assert.Error(t, (&UpdateVisualsRequest{PrimaryColor: ptr("black")}).Apply(&v))
}

func TestPrincipalHelpers(t *testing.T) {
	var nilPrincipal *Principal
	assert.False(t, nilPrincipal.IsAdmin())

	p := &Principal{Kind: KindCompany, Role: RoleCompany, Sections: []Section{SectionPayments}}
	assert.True(t, p.IsCompany())
	assert.False(t, p.IsStaff())
	assert.True(t, p.HasSection(SectionPayments))
	assert.False(t, p.HasSection(SectionVisuals))
}
