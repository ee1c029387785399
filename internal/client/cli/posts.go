package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dberestov/miniblog/internal/client/blog"
)

func parseID(args []string) (int64, bool) {
	if len(args) == 0 {
		fmt.Println("Usage: <command> <id>")
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid id %q\n", args[0])
		return 0, false
	}
	return id, true
}

func (a *App) createPost(ctx context.Context) {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return
	}
	content, err := GetMultiline(a.reader, "Enter content", os.Stdout)
	if err != nil {
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	post, err := a.client.CreatePost(opCtx, title, content)
	if err != nil {
		if blog.IsUnauthorized(err) {
			fmt.Println("Unauthorized. Please login first.")
			return
		}
		fmt.Printf("Failed to create post: %s\n", err)
		return
	}
	fmt.Printf("Created post %d: %s\n", post.ID, post.Title)
}

func (a *App) getPost(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	post, err := a.client.GetPost(opCtx, id)
	if err != nil {
		if blog.IsNotFound(err) {
			fmt.Printf("Post %d not found\n", id)
			return
		}
		fmt.Printf("Error: %s\n", err)
		return
	}
	fmt.Printf("[%d] %s (author %d)\n", post.ID, post.Title, post.AuthorID)
	fmt.Println(post.Content)
	fmt.Printf("created %s, updated %s\n", post.CreatedAt, post.UpdatedAt)
}

func (a *App) updatePost(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}

	// Empty input means "leave this field unchanged".
	titleIn, err := getSimpleText(a.reader, "New title (empty to keep)", os.Stdout)
	if err != nil {
		return
	}
	contentIn, err := GetMultiline(a.reader, "New content (empty to keep)", os.Stdout)
	if err != nil {
		return
	}

	var title, content *string
	if titleIn != "" {
		title = &titleIn
	}
	if contentIn != "" {
		content = &contentIn
	}
	if title == nil && content == nil {
		fmt.Println("Nothing to update")
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	post, err := a.client.UpdatePost(opCtx, id, title, content)
	if err != nil {
		switch {
		case blog.IsNotFound(err):
			fmt.Printf("Post %d not found\n", id)
		case blog.IsUnauthorized(err):
			fmt.Println("Unauthorized. You may not own this post or need to login again.")
		default:
			fmt.Printf("Failed to update post: %s\n", err)
		}
		return
	}
	fmt.Printf("Updated post %d (updated %s)\n", post.ID, post.UpdatedAt)
}

func (a *App) deletePost(ctx context.Context, args []string) {
	id, ok := parseID(args)
	if !ok {
		return
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.client.DeletePost(opCtx, id); err != nil {
		switch {
		case blog.IsNotFound(err):
			fmt.Printf("Post %d not found\n", id)
		case blog.IsUnauthorized(err):
			fmt.Println("Unauthorized. You may not own this post or need to login again.")
		default:
			fmt.Printf("Failed to delete post: %s\n", err)
		}
		return
	}
	fmt.Printf("Deleted post %d\n", id)
}

func (a *App) listPosts(ctx context.Context, args []string) {
	var limit, offset int64
	if len(args) > 0 {
		limit, _ = strconv.ParseInt(args[0], 10, 64)
	}
	if len(args) > 1 {
		offset, _ = strconv.ParseInt(args[1], 10, 64)
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	page, err := a.client.ListPosts(opCtx, limit, offset)
	if err != nil {
		fmt.Printf("Failed to list posts: %s\n", err)
		return
	}

	fmt.Printf("Found %d posts (total %d)\n", len(page.Posts), page.Total)
	for i, post := range page.Posts {
		fmt.Printf("  %d. [%d] %s\n", i+1, post.ID, post.Title)
		fmt.Printf("     %s\n", truncate(post.Content, 50))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
