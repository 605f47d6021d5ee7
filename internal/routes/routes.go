package routes

import (
    "time"

    "github.com/gin-gonic/gin"
    "gorm.io/gorm"

    "github.com/collabtasks/backend/internal/config"
    "github.com/collabtasks/backend/internal/controllers"
    "github.com/collabtasks/backend/internal/middleware"
    "github.com/collabtasks/backend/internal/models"
)

func Register(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
    expiresMins, err := time.ParseDuration(cfg.JWTExpiresIn + "m")
    if err != nil || expiresMins == 0 {
        expiresMins = 60 * time.Minute
    }
    authCtrl := &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret, ExpiresIn: expiresMins}
    userCtrl := &controllers.UserController{DB: db}
    roomCtrl := &controllers.RoomController{DB: db}
    taskListCtrl := &controllers.TaskListController{DB: db}
    taskCtrl := &controllers.TaskController{DB: db}
    assignCtrl := &controllers.AssignmentController{DB: db}
    accessCtrl := &controllers.AccessController{DB: db}
    checkCtrl := &controllers.RoomCheckController{DB: db}
    roomImgCtrl := &controllers.RoomImageController{DB: db}
    contactCtrl := &controllers.ContactAttemptController{DB: db}

    // Public
    auth := r.Group("/api/v1/auth")
    {
        auth.POST("/login", authCtrl.Login)
    }

    // Protected
    authMW := middleware.AuthMiddleware(db, middleware.AuthConfig{
        JWTSecret:    cfg.JWTSecret,
        JWTExpiresIn: expiresMins,
    })
    api := r.Group("/api/v1", authMW)
    {
        api.GET("/auth/me", authCtrl.Me)

        // Admin-only: account management and access grants
        admin := api.Group("/admin", middleware.RequireRoles(models.RoleAdmin))
        {
            admin.GET("/users", userCtrl.ListUsers)
            admin.POST("/users", userCtrl.CreateUser)
            admin.POST("/users/import", userCtrl.ImportUsers)
            admin.GET("/users/:user_id", userCtrl.GetUser)
            admin.PUT("/users/:user_id", userCtrl.UpdateUser)
            admin.DELETE("/users/:user_id", userCtrl.DeleteUser)

            admin.GET("/users/:user_id/task-lists", taskListCtrl.ListUserTaskLists)

            admin.GET("/users/:user_id/rooms-access", accessCtrl.ListAccess)
            admin.POST("/users/:user_id/rooms-access", accessCtrl.GrantAccess)
            admin.DELETE("/users/:user_id/rooms-access/:room_id", accessCtrl.RevokeAccess)
        }

        // Department staff (and admin): rooms and everything hanging off them
        staff := api.Group("", middleware.RequireRoles(models.RoleDptStaff, models.RoleAdmin))
        {
            staff.POST("/rooms", roomCtrl.CreateRoom)
            staff.PUT("/rooms/:id", roomCtrl.UpdateRoom)
            staff.DELETE("/rooms/:id", roomCtrl.DeleteRoom)

            staff.GET("/rooms/:id/assignments", assignCtrl.ListAssignments)
            staff.POST("/rooms/:id/assignments", assignCtrl.CreateAssignment)
            staff.DELETE("/rooms/:id/assignments/:assignment_id", assignCtrl.DeleteAssignment)

            staff.POST("/rooms/:id/images", roomImgCtrl.AddImage)
            staff.DELETE("/rooms/:id/images/:image_id", roomImgCtrl.DeleteImage)

            staff.GET("/rooms/:id/contact-attempts", contactCtrl.ListContactAttempts)
            staff.POST("/rooms/:id/contact-attempts", contactCtrl.CreateContactAttempt)
            staff.GET("/contact-attempts/:id", contactCtrl.GetContactAttempt)
            staff.PUT("/contact-attempts/:id", contactCtrl.UpdateContactAttempt)
            staff.DELETE("/contact-attempts/:id", contactCtrl.DeleteContactAttempt)
        }

        // Any authenticated role
        api.GET("/rooms", roomCtrl.ListRooms)
        api.GET("/rooms/:id", roomCtrl.GetRoom)
        api.GET("/rooms/:id/images", roomImgCtrl.ListImages)
        api.GET("/rooms/:id/checks", checkCtrl.ListRoomChecks)

        api.GET("/task-lists", taskListCtrl.ListTaskLists)
        api.POST("/task-lists", taskListCtrl.CreateTaskList)
        api.GET("/task-lists/:id", taskListCtrl.GetTaskList)
        api.PUT("/task-lists/:id", taskListCtrl.UpdateTaskList)
        api.DELETE("/task-lists/:id", taskListCtrl.DeleteTaskList)
        api.GET("/task-lists/:id/tasks", taskListCtrl.ListTasks)
        api.POST("/task-lists/:id/tasks", taskCtrl.CreateTask)

        api.GET("/tasks/:id", taskCtrl.GetTask)
        api.PUT("/tasks/:id", taskCtrl.UpdateTask)
        api.DELETE("/tasks/:id", taskCtrl.DeleteTask)
        api.POST("/tasks/:id/assign", taskCtrl.AssignTask)
        api.DELETE("/tasks/:id/assign", taskCtrl.UnassignTask)

        api.POST("/room-checks", checkCtrl.CreateRoomCheck)
        api.GET("/room-checks/:id", checkCtrl.GetRoomCheck)
        api.PUT("/room-checks/:id", checkCtrl.UpdateRoomCheck)
        api.DELETE("/room-checks/:id", checkCtrl.DeleteRoomCheck)
        api.GET("/room-checks/:id/images", checkCtrl.ListImages)
        api.POST("/room-checks/:id/images", checkCtrl.AddImage)
        api.DELETE("/room-checks/:id/images/:image_id", checkCtrl.DeleteImage)
    }
}
