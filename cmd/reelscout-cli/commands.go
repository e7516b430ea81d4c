package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/narwhalmedia/reelscout/internal/catalog/domain"
	"github.com/narwhalmedia/reelscout/pkg/errors"
	"github.com/narwhalmedia/reelscout/pkg/models"
)

func (a *App) registerSessionCommands() {
	a.Register(Command{
		Name:        "login",
		Usage:       "login -u <username> -p <password>",
		Description: "Sign in with a TMDB account",
		Execute: func(ctx context.Context, args []string) error {
			fs := a.flagSet("login")
			username := fs.String("u", "", "TMDB username")
			password := fs.String("p", "", "TMDB password")
			if _, err := parseArgs(fs, args); err != nil {
				return err
			}
			result, err := a.sessions.Login(ctx, *username, *password)
			if err != nil {
				return err
			}
			return a.print(result.Profile)
		},
	})

	a.Register(Command{
		Name:        "logout",
		Usage:       "logout",
		Description: "End the current session",
		Execute: func(ctx context.Context, args []string) error {
			user, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			return a.sessions.Logout(ctx, user.Session.ID)
		},
	})

	a.Register(Command{
		Name:        "whoami",
		Usage:       "whoami",
		Description: "Show the signed in profile",
		Execute: func(ctx context.Context, args []string) error {
			user, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			return a.print(user)
		},
	})
}

func (a *App) registerCatalogCommands() {
	a.Register(Command{
		Name:        "trending",
		Usage:       "trending [all|movie|tv]",
		Description: "List trending titles",
		Execute: func(ctx context.Context, args []string) error {
			tab := domain.TabAll
			if len(args) > 0 {
				parsed, ok := domain.ParseTab(args[0])
				if !ok {
					return errors.BadRequest("invalid tab " + strconv.Quote(args[0]))
				}
				tab = parsed
			}
			feed, err := a.catalog.Trending(ctx, tab)
			if err != nil {
				return err
			}
			return a.print(feed)
		},
	})

	a.Register(Command{
		Name:        "search",
		Usage:       "search <query>",
		Description: "Search movies, shows and people",
		Execute: func(ctx context.Context, args []string) error {
			result, err := a.catalog.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.print(result)
		},
	})

	a.Register(Command{
		Name:        "ai",
		Usage:       "ai <description>",
		Description: "Find titles matching a description",
		Execute: func(ctx context.Context, args []string) error {
			result, err := a.catalog.AISearch(ctx, strings.Join(args, " "))
			if err != nil || result == nil {
				return err
			}
			return a.print(result)
		},
	})

	a.Register(Command{
		Name:        "movie",
		Usage:       "movie <id>",
		Description: "Show movie details",
		Execute: func(ctx context.Context, args []string) error {
			if err := expectArgs("movie <id>", args, 1); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			details, err := a.catalog.MovieDetails(ctx, id)
			if err != nil {
				return err
			}
			return a.print(details)
		},
	})

	a.Register(Command{
		Name:        "show",
		Usage:       "show <id>",
		Description: "Show TV show details",
		Execute: func(ctx context.Context, args []string) error {
			if err := expectArgs("show <id>", args, 1); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			details, err := a.catalog.ShowDetails(ctx, id)
			if err != nil {
				return err
			}
			return a.print(details)
		},
	})

	a.Register(Command{
		Name:        "similar",
		Usage:       "similar <movie|tv> <id>",
		Description: "List similar titles",
		Execute: func(ctx context.Context, args []string) error {
			mediaType, id, err := parseTypedID("similar <movie|tv> <id>", args)
			if err != nil {
				return err
			}
			var results []models.Media
			if mediaType == models.MediaTypeTV {
				results, err = a.catalog.SimilarShows(ctx, id)
			} else {
				results, err = a.catalog.SimilarMovies(ctx, id)
			}
			if err != nil {
				return err
			}
			return a.print(results)
		},
	})

	a.Register(Command{
		Name:        "season",
		Usage:       "season <show-id> <n>",
		Description: "List the episodes of a season",
		Execute: func(ctx context.Context, args []string) error {
			if err := expectArgs("season <show-id> <n>", args, 2); err != nil {
				return err
			}
			showID, err := parseID(args[0])
			if err != nil {
				return err
			}
			season, err := strconv.Atoi(args[1])
			if err != nil || season < 0 {
				return errors.BadRequest("invalid season number " + strconv.Quote(args[1]))
			}
			episodes, err := a.catalog.SeasonEpisodes(ctx, showID, season)
			if err != nil {
				return err
			}
			return a.print(episodes)
		},
	})

	a.Register(Command{
		Name:        "reviews",
		Usage:       "reviews <movie|tv> <id>",
		Description: "List reviews",
		Execute: func(ctx context.Context, args []string) error {
			mediaType, id, err := parseTypedID("reviews <movie|tv> <id>", args)
			if err != nil {
				return err
			}
			var reviews []models.Review
			if mediaType == models.MediaTypeTV {
				reviews, err = a.catalog.ShowReviews(ctx, id)
			} else {
				reviews, err = a.catalog.MovieReviews(ctx, id)
			}
			if err != nil {
				return err
			}
			return a.print(reviews)
		},
	})

	a.Register(Command{
		Name:        "videos",
		Usage:       "videos <movie|tv> <id>",
		Description: "List trailers and clips",
		Execute: func(ctx context.Context, args []string) error {
			mediaType, id, err := parseTypedID("videos <movie|tv> <id>", args)
			if err != nil {
				return err
			}
			videos, err := a.catalog.Videos(ctx, id, mediaType)
			if err != nil {
				return err
			}
			return a.print(videos)
		},
	})
}

func (a *App) registerAccountCommands() {
	a.Register(Command{
		Name:        "state",
		Usage:       "state <movie|tv> <id>",
		Description: "Show favorite and watchlist state",
		Execute: func(ctx context.Context, args []string) error {
			mediaType, id, err := parseTypedID("state <movie|tv> <id>", args)
			if err != nil {
				return err
			}
			user, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			state, err := a.account.MediaState(ctx, user.Session, id, mediaType)
			if err != nil {
				return err
			}
			return a.print(state)
		},
	})

	a.Register(a.markCommand("favorite", "Add to or remove from favorites", func(ctx context.Context, mediaType models.MediaType, id int, on bool) (*models.StatusResponse, error) {
		user, err := a.sessions.Current(ctx)
		if err != nil {
			return nil, err
		}
		return a.account.MarkFavorite(ctx, user.Session, mediaType, id, on)
	}))

	a.Register(a.markCommand("watchlist", "Add to or remove from the watchlist", func(ctx context.Context, mediaType models.MediaType, id int, on bool) (*models.StatusResponse, error) {
		user, err := a.sessions.Current(ctx)
		if err != nil {
			return nil, err
		}
		return a.account.MarkWatchlist(ctx, user.Session, mediaType, id, on)
	}))

	a.Register(Command{
		Name:        "favorites",
		Usage:       "favorites <movies|tv>",
		Description: "List favorite titles",
		Execute: func(ctx context.Context, args []string) error {
			if err := expectArgs("favorites <movies|tv>", args, 1); err != nil {
				return err
			}
			mediaType, err := parseMediaType(args[0])
			if err != nil {
				return err
			}
			user, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			var results []models.FavoriteMedia
			if mediaType == models.MediaTypeTV {
				results, err = a.account.FavoriteShows(ctx, user.Session)
			} else {
				results, err = a.account.FavoriteMovies(ctx, user.Session)
			}
			if err != nil {
				return err
			}
			return a.print(results)
		},
	})

	a.Register(Command{
		Name:        "watchlisted",
		Usage:       "watchlisted <movies|tv>",
		Description: "List watchlisted titles",
		Execute: func(ctx context.Context, args []string) error {
			if err := expectArgs("watchlisted <movies|tv>", args, 1); err != nil {
				return err
			}
			mediaType, err := parseMediaType(args[0])
			if err != nil {
				return err
			}
			user, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			var results []models.WatchlistMedia
			if mediaType == models.MediaTypeTV {
				results, err = a.account.WatchlistShows(ctx, user.Session)
			} else {
				results, err = a.account.WatchlistMovies(ctx, user.Session)
			}
			if err != nil {
				return err
			}
			return a.print(results)
		},
	})
}

type markFunc func(ctx context.Context, mediaType models.MediaType, id int, on bool) (*models.StatusResponse, error)

func (a *App) markCommand(name, description string, mark markFunc) Command {
	usage := name + " <movie|tv> <id> [--remove]"
	return Command{
		Name:        name,
		Usage:       usage,
		Description: description,
		Execute: func(ctx context.Context, args []string) error {
			fs := a.flagSet(name)
			remove := fs.Bool("remove", false, "remove instead of add")
			positional, err := parseArgs(fs, args)
			if err != nil {
				return err
			}
			mediaType, id, err := parseTypedID(usage, positional)
			if err != nil {
				return err
			}
			status, err := mark(ctx, mediaType, id, !*remove)
			if err != nil {
				return err
			}
			return a.print(status)
		},
	}
}
