package smugmug

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"

	"github.com/photomig/photomigration/types"
)

type fakeAlbum struct {
	key     string
	name    string
	urlPath string
	images  []fakeImage
}

type fakeImage struct {
	key      string
	fileName string
	size     int64
	md5      string
}

// newFakeAPI serves just enough of the SmugMug v2 surface for the client:
// authuser, paginated album and image listings, rendition resolution, and the
// media download itself. pageSize controls server-side pagination.
func newFakeAPI(t *testing.T, nickname string, albums []fakeAlbum, pageSize int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	var server *httptest.Server

	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(v); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}

	page := func(r *http.Request, total int) (int, int) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		if start < 1 {
			start = 1
		}
		if count < 1 || count > pageSize {
			count = pageSize
		}
		end := start - 1 + count
		if end > total {
			end = total
		}
		return start - 1, end
	}

	mux.HandleFunc("/api/v2!authuser", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		writeJSON(w, map[string]interface{}{
			"Response": map[string]interface{}{
				"User": map[string]interface{}{
					"NickName": nickname,
					"Uris": map[string]interface{}{
						"UserAlbums": map[string]string{"Uri": "/api/v2/user/" + nickname + "!albums"},
					},
				},
			},
		})
	})

	mux.HandleFunc("/api/v2/user/"+nickname+"!albums", func(w http.ResponseWriter, r *http.Request) {
		lo, hi := page(r, len(albums))
		var body []map[string]interface{}
		for _, a := range albums[lo:hi] {
			body = append(body, map[string]interface{}{
				"AlbumKey":   a.key,
				"Name":       a.name,
				"UrlPath":    a.urlPath,
				"ImageCount": len(a.images),
			})
		}
		writeJSON(w, map[string]interface{}{
			"Response": map[string]interface{}{
				"Album": body,
				"Pages": map[string]int{"Total": len(albums), "Start": lo + 1, "Count": hi - lo},
			},
		})
	})

	for _, a := range albums {
		album := a
		mux.HandleFunc("/api/v2/album/"+album.key+"!images", func(w http.ResponseWriter, r *http.Request) {
			lo, hi := page(r, len(album.images))
			var body []map[string]interface{}
			for _, img := range album.images[lo:hi] {
				body = append(body, map[string]interface{}{
					"ImageKey":     img.key,
					"FileName":     img.fileName,
					"ArchivedSize": img.size,
					"ArchivedMD5":  img.md5,
					"Uris": map[string]interface{}{
						"Image": map[string]string{"Uri": "/api/v2/image/" + img.key},
					},
				})
			}
			writeJSON(w, map[string]interface{}{
				"Response": map[string]interface{}{
					"AlbumImage": body,
					"Pages":      map[string]int{"Total": len(album.images), "Start": lo + 1, "Count": hi - lo},
				},
			})
		})

		for _, img := range album.images {
			image := img
			mux.HandleFunc("/api/v2/image/"+image.key+"!largestimage", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, map[string]interface{}{
					"Response": map[string]interface{}{
						"LargestImage": map[string]string{"Url": server.URL + "/media/" + image.key},
					},
				})
			})
			mux.HandleFunc("/media/"+image.key, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/jpeg")
				fmt.Fprintf(w, "bytes-of-%s", image.key)
			})
		}
	}

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestListAlbums(t *testing.T) {
	albums := []fakeAlbum{
		{key: "K1", name: "Summer 2019", urlPath: "/alice/Travel/Summer-2019"},
		{key: "K2", name: "Family", urlPath: "/alice/Family"},
		{key: "K3", name: "No Path Album", urlPath: ""},
	}
	server := newFakeAPI(t, "alice", albums, 100)
	client := NewClient(server.Client(), server.URL)

	got, err := client.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d albums, want 3", len(got))
	}

	tests := []struct {
		id   string
		path []string
	}{
		{"K1", []string{"Travel", "Summer-2019"}},
		{"K2", []string{"Family"}},
		// nickname-only or empty paths fall back to the album name
		{"K3", []string{"No Path Album"}},
	}
	for i, tc := range tests {
		if got[i].ID != tc.id {
			t.Errorf("album %d id = %s, want %s", i, got[i].ID, tc.id)
		}
		if !reflect.DeepEqual(got[i].Path, tc.path) {
			t.Errorf("album %s path = %v, want %v", tc.id, got[i].Path, tc.path)
		}
	}
}

func TestListAlbumsPaginates(t *testing.T) {
	var albums []fakeAlbum
	for i := 0; i < 7; i++ {
		albums = append(albums, fakeAlbum{
			key:     fmt.Sprintf("K%d", i),
			name:    fmt.Sprintf("Album %d", i),
			urlPath: fmt.Sprintf("/alice/Album-%d", i),
		})
	}
	server := newFakeAPI(t, "alice", albums, 3)
	client := NewClient(server.Client(), server.URL)

	got, err := client.ListAlbums(context.Background())
	if err != nil {
		t.Fatalf("ListAlbums: %v", err)
	}
	if len(got) != 7 {
		t.Fatalf("got %d albums, want 7 across 3 pages", len(got))
	}
	for i, a := range got {
		if want := fmt.Sprintf("K%d", i); a.ID != want {
			t.Errorf("album %d = %s, want %s (order must be preserved)", i, a.ID, want)
		}
	}
}

func TestListItems(t *testing.T) {
	album := fakeAlbum{
		key:     "K1",
		name:    "Pics",
		urlPath: "/alice/Pics",
		images: []fakeImage{
			{key: "IMG1", fileName: "beach.jpg", size: 1000, md5: "aa"},
			{key: "IMG2", fileName: "", size: 2000, md5: "bb"}, // nameless upload
			{key: "IMG3", fileName: "dunes.mp4", size: 3000, md5: "cc"},
		},
	}
	server := newFakeAPI(t, "alice", []fakeAlbum{album}, 2)
	client := NewClient(server.Client(), server.URL)

	items, err := client.ListItems(context.Background(), &types.Album{ID: "K1", Path: []string{"Pics"}})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("got %d items, want 3 across 2 pages", len(items))
	}

	if items[0].FileName != "beach.jpg" || items[0].Size != 1000 || items[0].MD5 != "aa" {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].FileName != "IMG2.jpg" {
		t.Errorf("nameless item filename = %s, want key-derived fallback", items[1].FileName)
	}
	if key := items[2].Key(); key != "Pics/dunes.mp4" {
		t.Errorf("item key = %s", key)
	}
}

func TestDownload(t *testing.T) {
	album := fakeAlbum{
		key:     "K1",
		name:    "Pics",
		urlPath: "/alice/Pics",
		images:  []fakeImage{{key: "IMG1", fileName: "beach.jpg", size: 14}},
	}
	server := newFakeAPI(t, "alice", []fakeAlbum{album}, 100)
	client := NewClient(server.Client(), server.URL)

	items, err := client.ListItems(context.Background(), &types.Album{ID: "K1", Path: []string{"Pics"}})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}

	obj, err := client.Download(context.Background(), items[0])
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "bytes-of-IMG1" {
		t.Errorf("body = %q", data)
	}
	if obj.ContentType != "image/jpeg" {
		t.Errorf("content type = %s", obj.ContentType)
	}
	if items[0].DownloadURL == "" {
		t.Error("resolved download url was not cached on the item")
	}
}

func TestDownloadFallsBackToArchive(t *testing.T) {
	// no !largestimage handler: only the archive download endpoint exists
	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/api/v2/image/IMG1!download", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"Response": {"ImageDownload": {"Url": "%s/archive/IMG1"}}}`, server.URL)
	})
	mux.HandleFunc("/archive/IMG1", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "original-bytes")
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	item := &types.MediaItem{ID: "IMG1", FileName: "beach.jpg", URI: "/api/v2/image/IMG1"}

	obj, err := client.Download(context.Background(), item)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer obj.Body.Close()

	data, _ := io.ReadAll(obj.Body)
	if string(data) != "original-bytes" {
		t.Errorf("body = %q", data)
	}
}
