package tests

import (
	"net/http"
	"time"
)

func (suite *APITestSuite) TestHealthReportsDependencies() {
	w, _ := suite.request(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"status":"healthy"`)
	suite.Contains(w.Body.String(), `"store":"ok"`)
}

func (suite *APITestSuite) TestAcceptedBargainPricesTheCart() {
	seller, sellerToken := suite.user("priya")
	_, buyerToken := suite.user("kabir")
	product := suite.product(seller.ID)
	productPath := product.ID.String()

	w, resp := suite.request(http.MethodPost, "/v1/bargains/"+productPath, buyerToken, map[string]interface{}{
		"offered_price":   800,
		"offered_in":      "cash",
		"seller_receives": 720,
		"message":         "Can you do 800?",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	bargain, _ := resp.Data["bargain"].(map[string]interface{})
	bargainID, _ := bargain["id"].(string)
	suite.Require().NotEmpty(bargainID)

	// A second offer has to be an update
	w, _ = suite.request(http.MethodPost, "/v1/bargains/"+productPath, buyerToken, map[string]interface{}{
		"offered_price": 700, "offered_in": "cash", "seller_receives": 630,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	// Anonymous viewers see offers without amounts
	w, resp = suite.request(http.MethodGet, "/v1/bargains/product/"+productPath, "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("public", resp.Data["viewer_role"])
	entries, _ := resp.Data["bargains"].([]interface{})
	suite.Require().Len(entries, 1)
	entry, _ := entries[0].(map[string]interface{})
	suite.NotContains(entry, "offered_price")

	w, resp = suite.request(http.MethodGet, "/v1/bargains/seller/"+seller.ID.String(), sellerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Len(resp.List, 1)

	w, _ = suite.request(http.MethodGet, "/v1/bargains/seller/"+seller.ID.String(), buyerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPatch, "/v1/bargains/"+bargainID+"/accept", buyerToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPatch, "/v1/bargains/"+bargainID+"/accept", sellerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, _ = suite.request(http.MethodPut, "/v1/bargains/"+productPath, buyerToken, map[string]interface{}{
		"offered_price": 750, "offered_in": "cash", "seller_receives": 675,
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.request(http.MethodPost, "/v1/cart", sellerToken, map[string]string{"product_id": productPath})
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.request(http.MethodPost, "/v1/cart", buyerToken, map[string]string{"product_id": productPath})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp = suite.request(http.MethodGet, "/v1/cart", buyerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	carts, _ := resp.Data["carts"].([]interface{})
	suite.Require().Len(carts, 1)
	cart, _ := carts[0].(map[string]interface{})
	products, _ := cart["products"].([]interface{})
	suite.Require().Len(products, 1)
	line, _ := products[0].(map[string]interface{})
	price, _ := line["price"].(map[string]interface{})
	cash, _ := price["cash"].(map[string]interface{})
	suite.Equal(float64(800), cash["amount"])
	suite.Equal(true, cash["bargained"])
	// Coin keeps the listed price
	coin, _ := price["coin"].(map[string]interface{})
	suite.Equal(float64(100), coin["amount"])

	w, resp = suite.request(http.MethodGet, "/v1/cart/summary", buyerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), resp.Data["total_products"])
	suite.Equal(float64(1), resp.Data["total_combos"])

	w, _ = suite.request(http.MethodDelete, "/v1/cart", buyerToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	suite.Eventually(func() bool {
		for _, entry := range suite.activity.AuditLogs() {
			if entry.Action == "PATCH /v1/bargains/:bargainId/accept" && entry.Status == http.StatusOK {
				return entry.ResourceID == bargainID && entry.ResourceType == "bargains"
			}
		}
		return false
	}, time.Second, 10*time.Millisecond)
}

func (suite *APITestSuite) TestCommentsAndReplies() {
	seller, _ := suite.user("lata")
	_, buyerToken := suite.user("dev")
	product := suite.product(seller.ID)

	w, resp := suite.request(http.MethodPost, "/v1/comments/"+product.ID.String(), buyerToken, map[string]interface{}{
		"text": "Is the colour true to the photos?",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	comment, _ := resp.Data["comment"].(map[string]interface{})
	commentID, _ := comment["id"].(string)
	suite.Require().NotEmpty(commentID)
	suite.Equal([]interface{}{seller.ID.String()}, comment["tagged_user_ids"])

	w, _ = suite.request(http.MethodPost, "/v1/comments/"+commentID+"/replies", buyerToken, map[string]interface{}{
		"text": "Also, any stains?",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp = suite.request(http.MethodGet, "/v1/comments/product/"+product.ID.String(), "", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Require().Len(resp.List, 1)
	listed, _ := resp.List[0].(map[string]interface{})
	suite.Equal(float64(1), listed["reply_count"])

	w, _ = suite.request(http.MethodPost, "/v1/comments/not-a-uuid", buyerToken, map[string]interface{}{"text": "hi"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestWishlistAndNotifications() {
	seller, sellerToken := suite.user("nisha")
	_, buyerToken := suite.user("arjun")
	product := suite.product(seller.ID)

	w, _ := suite.request(http.MethodPost, "/v1/wishlist/"+product.ID.String(), buyerToken, nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, _ = suite.request(http.MethodPost, "/v1/wishlist/"+product.ID.String(), buyerToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, resp := suite.request(http.MethodGet, "/v1/wishlist?price_type=cash&max_price=1000", buyerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Len(resp.List, 1)

	w, _ = suite.request(http.MethodGet, "/v1/wishlist?sort=cheapest", buyerToken, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	// The seller is notified of the offer
	w, _ = suite.request(http.MethodPost, "/v1/bargains/"+product.ID.String(), buyerToken, map[string]interface{}{
		"offered_price": 60, "offered_in": "coin", "seller_receives": 54,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp = suite.request(http.MethodGet, "/v1/notifications", sellerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(1), resp.Data["count"])
}

func (suite *APITestSuite) TestShippingEndpoints() {
	_, token := suite.user("sana")

	w, resp := suite.request(http.MethodGet, "/v1/shipping/serviceability?pincode=560001", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("560001", resp.Data["pincode"])

	w, _ = suite.request(http.MethodGet, "/v1/shipping/serviceability?pincode=110001", "", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.request(http.MethodGet, "/v1/shipping/waybills", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, resp = suite.request(http.MethodGet, "/v1/shipping/waybills", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(float64(6), resp.Data["count"])

	w, _ = suite.request(http.MethodGet, "/v1/shipping/waybills?count=abc", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.request(http.MethodGet, "/v1/shipping/waybills?count=26", token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestHugeBargainPageIsEmpty() {
	seller, _ := suite.user("meera")
	_, buyerToken := suite.user("arjun")
	product := suite.product(seller.ID)

	w, _ := suite.request(http.MethodPost, "/v1/bargains/"+product.ID.String(), buyerToken, map[string]interface{}{
		"offered_price": 800, "offered_in": "cash", "seller_receives": 720,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w, resp := suite.request(http.MethodGet, "/v1/bargains/product/"+product.ID.String()+"?page=1000000000000000000", "", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	entries, _ := resp.Data["bargains"].([]interface{})
	suite.Empty(entries)
	suite.Equal(float64(1), resp.Data["total"])
}
