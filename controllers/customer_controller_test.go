package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notahub/nota-api/models"
	"github.com/notahub/nota-api/responses"
)

func TestCreateCustomer(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successfully create customer",
			requestBody: map[string]interface{}{
				"name":         "CUST001",
				"display_name": "Acme Trading",
				"location":     "Jakarta",
				"gender":       "F",
				"address":      "Jl. Sudirman 1",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Successfully create customer without address",
			requestBody: map[string]interface{}{
				"name":         "CUST002",
				"display_name": "Beta Store",
				"location":     "Bandung",
				"gender":       "M",
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "Fail with missing name",
			requestBody: map[string]interface{}{
				"display_name": "No Name",
				"location":     "Jakarta",
				"gender":       "F",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "the name field is required",
		},
		{
			name: "Fail with invalid gender",
			requestBody: map[string]interface{}{
				"name":         "CUST003",
				"display_name": "Gamma Store",
				"location":     "Surabaya",
				"gender":       "X",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "the gender field must be one of: F M",
		},
		{
			name: "Fail with duplicate name",
			requestBody: map[string]interface{}{
				"name":         "CUST001",
				"display_name": "Acme Clone",
				"location":     "Jakarta",
				"gender":       "F",
			},
			expectedStatus: http.StatusConflict,
			expectedError:  `the name "CUST001" has already been taken`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(t, router, http.MethodPost, "/customers", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := parseResponse(t, w)
			assert.Equal(t, float64(tt.expectedStatus), response["status"])

			if tt.expectedError != "" {
				assert.Equal(t, responses.MessageError, response["message"])
				assert.Contains(t, response["error"], tt.expectedError)
				assert.Nil(t, response["data"])
			} else {
				assert.Equal(t, responses.MessageSuccess, response["message"])
				// Created records are not echoed back
				assert.Nil(t, response["data"])
			}
		})
	}

	// Both successful creates persisted
	var count int64
	db.Model(&models.Customer{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestGetCustomer(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	address := "Jl. Thamrin 10"
	customer := models.Customer{
		Name:        "CUST010",
		DisplayName: "Delta Mart",
		Location:    "Medan",
		Gender:      "M",
		Address:     &address,
	}
	require.NoError(t, db.Create(&customer).Error)

	t.Run("Returns the serialized customer", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, fmt.Sprintf("/customers/%d", customer.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(customer.ID), data["id"])
		assert.Equal(t, "CUST010", data["name"])
		assert.Equal(t, "Delta Mart", data["displayName"])
		assert.Equal(t, "Medan", data["location"])
		assert.Equal(t, "M", data["gender"])
		assert.Contains(t, data, "createdAt")
		assert.Contains(t, data, "updatedAt")
		// The address field is not exposed
		assert.NotContains(t, data, "address")
	})

	t.Run("Fail with non-numeric id", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail with unknown id", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		response := parseResponse(t, w)
		assert.Equal(t, responses.MessageError, response["message"])
	})
}

func TestCreateThenGetCustomerRoundTrip(t *testing.T) {
	setupTestDB(t)
	router := setupTestRouter()

	payload := map[string]interface{}{
		"name":         "CUST020",
		"display_name": "Echo Shop",
		"location":     "Semarang",
		"gender":       "F",
	}
	w := performRequest(t, router, http.MethodPost, "/customers", payload)
	require.Equal(t, http.StatusOK, w.Code)

	// Look the row up through the list endpoint since create does not echo
	w = performRequest(t, router, http.MethodGet, "/customers?search=CUST020", nil)
	require.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	data := response["data"].([]interface{})
	require.Len(t, data, 1)

	customer := data[0].(map[string]interface{})
	assert.Equal(t, "CUST020", customer["name"])
	assert.Equal(t, "Echo Shop", customer["displayName"])
	assert.Equal(t, "Semarang", customer["location"])
	assert.Equal(t, "F", customer["gender"])
}

func TestUpdateCustomer(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	first := createTestCustomer(t, db, "CUST030", "First")
	second := createTestCustomer(t, db, "CUST031", "Second")

	t.Run("Replaces every editable field", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":         "CUST030B",
			"display_name": "First Renamed",
			"location":     "Bali",
			"gender":       "M",
		}
		w := performRequest(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", first.ID), payload)
		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Customer
		require.NoError(t, db.First(&updated, first.ID).Error)
		assert.Equal(t, "CUST030B", updated.Name)
		assert.Equal(t, "First Renamed", updated.DisplayName)
		assert.Equal(t, "Bali", updated.Location)
		assert.Equal(t, "M", updated.Gender)
		assert.Nil(t, updated.Address)
	})

	t.Run("Updating to own name succeeds", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":         "CUST031",
			"display_name": "Second",
			"location":     "Jakarta",
			"gender":       "F",
		}
		w := performRequest(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", second.ID), payload)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Updating to another customer's name fails", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":         "CUST030B",
			"display_name": "Second",
			"location":     "Jakarta",
			"gender":       "F",
		}
		w := performRequest(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", second.ID), payload)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Fail with unknown id", func(t *testing.T) {
		payload := map[string]interface{}{
			"name":         "CUST099",
			"display_name": "Ghost",
			"location":     "Nowhere",
			"gender":       "F",
		}
		w := performRequest(t, router, http.MethodPut, "/customers/9999", payload)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail with missing fields", func(t *testing.T) {
		payload := map[string]interface{}{
			"name": "CUST031",
		}
		w := performRequest(t, router, http.MethodPut, fmt.Sprintf("/customers/%d", second.ID), payload)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteCustomer(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	customer := createTestCustomer(t, db, "CUST040", "Deletable")

	t.Run("Hard-deletes the row", func(t *testing.T) {
		w := performRequest(t, router, http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var count int64
		db.Model(&models.Customer{}).Where("id = ?", customer.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Fail with unknown id", func(t *testing.T) {
		w := performRequest(t, router, http.MethodDelete, fmt.Sprintf("/customers/%d", customer.ID), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Refused while referenced by an order", func(t *testing.T) {
		referenced := createTestCustomer(t, db, "CUST041", "Referenced")
		product := createTestProduct(t, db, "PROD040", 10)
		w := performRequest(t, router, http.MethodPost, "/orders", orderPayload(referenced.ID, lineFixture{product.ID, 1}))
		require.Equal(t, http.StatusOK, w.Code)

		w = performRequest(t, router, http.MethodDelete, fmt.Sprintf("/customers/%d", referenced.ID), nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		var count int64
		db.Model(&models.Customer{}).Where("id = ?", referenced.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestListCustomersPagination(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	for i := 1; i <= 30; i++ {
		createTestCustomer(t, db, fmt.Sprintf("CUST%03d", i), fmt.Sprintf("Customer %d", i))
	}

	t.Run("Page 1 holds 25 items", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].([]interface{})
		assert.Len(t, data, 25)

		meta := response["meta"].(map[string]interface{})
		assert.Equal(t, float64(1), meta["currentPage"])
		assert.Equal(t, float64(25), meta["perPage"])
		assert.Equal(t, float64(30), meta["total"])
		assert.Equal(t, float64(2), meta["lastPage"])

		links := response["links"].(map[string]interface{})
		assert.NotNil(t, links["next"])
		assert.Nil(t, links["prev"])

		// Reverse-chronological: the newest customer comes first
		first := data[0].(map[string]interface{})
		assert.Equal(t, "CUST030", first["name"])
	})

	t.Run("Page 2 holds the remaining 5", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers?page=2", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].([]interface{})
		assert.Len(t, data, 5)

		links := response["links"].(map[string]interface{})
		assert.Nil(t, links["next"])
		assert.NotNil(t, links["prev"])
	})
}

func TestListCustomersSearch(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter()

	createTestCustomer(t, db, "ACME01", "Acme")
	createTestCustomer(t, db, "OTHER01", "Other")

	t.Run("Prefix matches", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers?search=Ac", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].([]interface{})
		require.Len(t, data, 1)
		assert.Equal(t, "Acme", data[0].(map[string]interface{})["displayName"])
	})

	t.Run("Substring does not match", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers?search=cme", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].([]interface{})
		assert.Len(t, data, 0)
	})

	t.Run("Matches the name column too", func(t *testing.T) {
		w := performRequest(t, router, http.MethodGet, "/customers?search=OTHER", nil)
		require.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		data := response["data"].([]interface{})
		assert.Len(t, data, 1)
	})
}
