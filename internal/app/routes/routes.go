package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/notehub/internal/app/controllers"
	"github.com/yigit/notehub/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	noteController *controllers.NoteController,
	ratingController *controllers.RatingController,
	profileController *controllers.ProfileController,
	referenceController *controllers.ReferenceController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public reads ---
	public := v1.Group("")
	public.Use(authMiddleware.OptionalSession())
	{
		public.GET("/subjects", referenceController.ListSubjects)
		public.GET("/professors", referenceController.ListProfessors)

		public.GET("/notes", noteController.ListNotes)
		public.GET("/notes/:id", noteController.GetNote)
		public.GET("/notes/:id/ratings", ratingController.ListRatings)
		public.GET("/notes/:id/ratings/summary", ratingController.GetRatingSummary)

		public.GET("/profiles/:id", profileController.GetProfile)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.RequireSession())
	{
		authenticated.POST("/notes", noteController.CreateNote)
		authenticated.DELETE("/notes/:id", noteController.DeleteNote)
		authenticated.GET("/notes/:id/download", noteController.DownloadNote)

		authenticated.GET("/notes/:id/ratings/me", ratingController.GetMyRating)
		authenticated.PUT("/notes/:id/ratings/me", ratingController.UpsertMyRating)

		// "me" is matched before the public :id route by gin's static-segment priority
		authenticated.GET("/profiles/me", profileController.GetMyProfile)
		authenticated.PUT("/profiles/me", profileController.UpdateMyProfile)
		authenticated.PUT("/profiles/me/avatar", profileController.UpdateMyAvatar)
	}
}
