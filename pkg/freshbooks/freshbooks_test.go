package freshbooks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const clientsPageOne = `{
	"response": {
		"result": {
			"clients": [
				{"id": 101, "fname": "John", "lname": "Doe", "organization": "Acme Corp"},
				{"id": 102, "fname": "", "lname": "", "organization": "Blue Harbor Design"}
			],
			"page": 1,
			"pages": 2
		}
	}
}`

const clientsPageTwo = `{
	"response": {
		"result": {
			"clients": [
				{"id": 103, "fname": "Mary", "lname": "Major", "organization": ""}
			],
			"page": 2,
			"pages": 2
		}
	}
}`

const servicesBody = `{
	"services": [
		{"id": 7, "name": "Development", "billable": true},
		{"id": 8, "name": "Design Review"}
	]
}`

func TestParseClientsPage(t *testing.T) {
	records, page, pages, err := parseClientsPage(clientsPageOne)
	if err != nil {
		t.Fatal(err)
	}
	if page != 1 || pages != 2 {
		t.Fatalf("pagination = %d/%d", page, pages)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records", len(records))
	}
	if records[0].ID != "101" || records[0].FirstName != "John" || records[0].Organization != "Acme Corp" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[1].FullName() != "" || records[1].Organization != "Blue Harbor Design" {
		t.Fatalf("second record = %+v", records[1])
	}

	if _, _, _, err := parseClientsPage(`{"response":{}}`); err == nil {
		t.Fatal("malformed body accepted")
	}
}

func TestParseServices(t *testing.T) {
	records, err := parseServices(servicesBody)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records", len(records))
	}
	if records[0].ID != "7" || records[0].Name != "Development" {
		t.Fatalf("first record = %+v", records[0])
	}
	if records[0].Billable == nil || !*records[0].Billable {
		t.Fatal("billable flag lost")
	}
	if records[1].Billable != nil {
		t.Fatal("absent billable field should stay nil")
	}

	if _, err := parseServices(`{}`); err == nil {
		t.Fatal("malformed body accepted")
	}
}

func TestFetchClientsPaginates(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, clientsPageOne)
		case "2":
			fmt.Fprint(w, clientsPageTwo)
		default:
			http.Error(w, "bad page", http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := New("tok", "555")
	c.BaseURL = srv.URL

	records, err := c.FetchClients(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("fetched %d records across pages", len(records))
	}
	if records[2].ID != "103" {
		t.Fatalf("last record = %+v", records[2])
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestIdentityFallsBackToStaff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/api/v1/users/me":
			fmt.Fprint(w, `{"unexpected": true}`)
		case "/accounting/account/555/users/staffs":
			fmt.Fprint(w, `{"response":{"result":{"staff":[{"id": 9000}]}}}`)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New("tok", "555")
	c.BaseURL = srv.URL

	id, err := c.Identity(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if id != "9000" {
		t.Fatalf("identity = %q", id)
	}
}

func TestSubmitRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"unprocessable"}`, http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := New("tok", "555")
	c.BaseURL = srv.URL

	if _, err := c.Submit(context.Background(), `{"time_entry":{}}`); err == nil {
		t.Fatal("non-2xx response accepted")
	}
}

func TestSubmitReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "wrong method", http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"time_entry":{"id":42}}`)
	}))
	defer srv.Close()

	c := New("tok", "555")
	c.BaseURL = srv.URL

	body, err := c.Submit(context.Background(), `{"time_entry":{"is_logged":true}}`)
	if err != nil {
		t.Fatal(err)
	}
	if body != `{"time_entry":{"id":42}}` {
		t.Fatalf("body = %q", body)
	}
}
