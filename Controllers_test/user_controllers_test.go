package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/homeplate/homeplate-app/controllers"
	"github.com/homeplate/homeplate-app/models"
	"github.com/homeplate/homeplate-app/utils"
)

func setupTestDBForUsers(t *testing.T, dsn string) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "file:ctl_users_register?mode=memory&cache=shared")
	router := setupUserRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "supersecret",
		"role":     "customer",
		"phone":    "555-0101",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// the password is stored hashed
	var user models.User
	assert.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	assert.NotEqual(t, "supersecret", user.Password)

	login, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "supersecret",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(login))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp utils.JSONResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "customer", data["user_role"])

	// wrong password is rejected
	badLogin, _ := json.Marshal(map[string]string{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(badLogin))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "file:ctl_users_admin?mode=memory&cache=shared")
	router := setupUserRouter(db)

	payload, _ := json.Marshal(map[string]interface{}{
		"name":     "Eve",
		"email":    "eve@example.com",
		"password": "supersecret",
		"role":     "admin",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGrantAdminRole(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "file:ctl_users_grant?mode=memory&cache=shared")
	db.Create(&models.User{Name: "Root", Email: "root@example.com", Password: "x", Role: models.RoleAdmin})
	db.Create(&models.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: models.RoleCustomer})

	gin.SetMode(gin.TestMode)
	userCtrl := controllers.NewUserController(db)

	adminRouter := gin.Default()
	adminRouter.POST("/admin/users/:user_id/grant-admin", authAs(1, models.RoleAdmin), userCtrl.GrantAdminRole)

	req, _ := http.NewRequest("POST", "/admin/users/2/grant-admin", nil)
	w := httptest.NewRecorder()
	adminRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	assert.NoError(t, db.First(&user, 2).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// non-admins cannot grant
	customerRouter := gin.Default()
	customerRouter.POST("/admin/users/:user_id/grant-admin", authAs(2, models.RoleCustomer), userCtrl.GrantAdminRole)
	req, _ = http.NewRequest("POST", "/admin/users/1/grant-admin", nil)
	w = httptest.NewRecorder()
	customerRouter.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t, "file:ctl_users_profile?mode=memory&cache=shared")
	db.Create(&models.User{Name: "Bob", Email: "bob@example.com", Password: "x", Role: models.RoleCook})

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.PATCH("/profile", authAs(1, models.RoleCook), userCtrl.UpdateProfile)

	payload, _ := json.Marshal(map[string]string{"kitchen_name": "Bob's Kitchen"})
	req, _ := http.NewRequest("PATCH", "/profile", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	assert.NoError(t, db.First(&user, 1).Error)
	if assert.NotNil(t, user.KitchenName) {
		assert.Equal(t, "Bob's Kitchen", *user.KitchenName)
	}
	assert.Equal(t, "Bob", user.Name)
}
