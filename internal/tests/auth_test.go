package tests

import (
	"net/http"
	"regexp"
	"time"
)

var otpPattern = regexp.MustCompile(`<strong>([0-9]{6})</strong>`)

func (suite *APITestSuite) TestSignupVerifyAndLogout() {
	signup := map[string]interface{}{
		"name":     "Asha Rao",
		"username": "asha_rao",
		"email":    "asha@example.com",
		"mobile":   "9876500001",
		"password": "Passw0rd!",
	}

	w, resp := suite.request(http.MethodPost, "/v1/auth/signup", "", signup)
	suite.Equal(http.StatusCreated, w.Code)
	suite.True(resp.Success)

	// Unverified accounts cannot log in yet
	w, _ = suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "asha@example.com",
		"password": "Passw0rd!",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	match := otpPattern.FindStringSubmatch(suite.mailer.LastTo("asha@example.com"))
	suite.Require().Len(match, 2)

	w, resp = suite.request(http.MethodPost, "/v1/auth/verify-otp", "", map[string]string{
		"email": "asha@example.com",
		"otp":   match[1],
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	token, _ := resp.Data["token"].(string)
	suite.Require().NotEmpty(token)
	suite.Equal(float64(3600), resp.Data["expires_in"])

	w, resp = suite.request(http.MethodGet, "/v1/auth/me", token, nil)
	suite.Equal(http.StatusOK, w.Code)
	user, _ := resp.Data["user"].(map[string]interface{})
	suite.Equal("asha_rao", user["username"])
	suite.Equal(true, user["is_verified"])

	w, _ = suite.request(http.MethodPost, "/v1/auth/logout", token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, resp = suite.request(http.MethodGet, "/v1/auth/me", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Require().NotNil(resp.Error)
	suite.Equal("UNAUTHORIZED", resp.Error.Code)

	// The signup body reaches the audit log with the password masked
	suite.Eventually(func() bool {
		for _, entry := range suite.activity.AuditLogs() {
			if entry.Action == "POST /v1/auth/signup" {
				return entry.Payload["password"] == "[REDACTED]" && entry.Payload["email"] == "asha@example.com"
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func (suite *APITestSuite) TestSignupValidationErrors() {
	w, resp := suite.request(http.MethodPost, "/v1/auth/signup", "", map[string]interface{}{
		"name":     "A",
		"username": "a!",
		"email":    "not-an-email",
		"mobile":   "12345",
		"password": "weak",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Require().NotNil(resp.Error)
	suite.Equal("VALIDATION_ERROR", resp.Error.Code)
	details, _ := resp.Error.Details.([]interface{})
	suite.Len(details, 5)
}

func (suite *APITestSuite) TestLoginReturnsTokenPair() {
	suite.user("meera")

	w, resp := suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "MEERA@example.com",
		"password": "Passw0rd!",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.NotEmpty(resp.Data["token"])
	suite.NotEmpty(resp.Data["refresh_token"])
	suite.Equal("Bearer", resp.Data["token_type"])

	w, _ = suite.request(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "meera@example.com",
		"password": "WrongPass1!",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestProtectedRoutesNeedToken() {
	w, resp := suite.request(http.MethodGet, "/v1/cart", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Require().NotNil(resp.Error)
	english := resp.Error.Message

	w, resp = suite.request(http.MethodGet, "/v1/cart", "", nil, "Accept-Language", "hi-IN,hi;q=0.9")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Require().NotNil(resp.Error)
	suite.NotEqual(english, resp.Error.Message)

	w, _ = suite.request(http.MethodGet, "/v1/cart", "", nil, "Authorization", "Basic abc")
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.request(http.MethodGet, "/v1/ws", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestHolidayModeParksProducts() {
	seller, token := suite.user("ravi")
	product := suite.product(seller.ID)

	w, resp := suite.request(http.MethodPut, "/v1/users/holiday-mode", token, map[string]bool{"holiday_mode": true})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.True(resp.Success)

	w, resp = suite.request(http.MethodGet, "/v1/products/"+product.ID.String(), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"unavailable"`)

	w, _ = suite.request(http.MethodPut, "/v1/users/holiday-mode", token, map[string]interface{}{})
	suite.Equal(http.StatusBadRequest, w.Code)
}
