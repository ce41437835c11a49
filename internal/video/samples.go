package video

import "time"

// Hosted files used by the sample set and by mock uploads, in rotation order.
var SampleMediaURLs = []string{
	"https://moltenmike.com/videos/dylan.mp4",
	"https://moltenmike.com/videos/anchors.mp4",
	"https://moltenmike.com/videos/son_camp_levee.mp4",
}

// Samples returns the records served when nothing has been uploaded yet.
func Samples() []Record {
	return []Record{
		{
			ID:                  "sample-1",
			SongTitle:           "Tangeld Up In AI Slop",
			OriginalFilename:    "Tangeld Up In AI Slop",
			TimestampedFilename: "Acoustic_Guitar_Solo_1683657890.mp4",
			UploadedAt:          time.Date(2023, 5, 9, 14, 31, 30, 0, time.UTC),
			ArtistName:          "Zimmer Quarry Man",
			Source:              NativeSource(SampleMediaURLs[0]),
		},
		{
			ID:                  "sample-2",
			SongTitle:           "Anchors In The Sun",
			OriginalFilename:    "Anchors In The Sun",
			TimestampedFilename: "Piano_Ballad_1683657891.mp4",
			UploadedAt:          time.Date(2023, 5, 10, 10, 15, 22, 0, time.UTC),
			ArtistName:          "Aussie",
			Source:              NativeSource(SampleMediaURLs[1]),
		},
		{
			ID:                  "sample-3",
			SongTitle:           "Old Video Test",
			OriginalFilename:    "Old Video Test",
			TimestampedFilename: "Son_Camp_Levee_1683657894.mp4",
			UploadedAt:          time.Date(2023, 5, 13, 13, 10, 45, 0, time.UTC),
			ArtistName:          "Son House",
			Source:              NativeSource(SampleMediaURLs[2]),
		},
	}
}

// Fallback returns the fixed set the feed shows when the video list is
// unavailable or empty on first load.
func Fallback() []Record {
	return []Record{
		{
			ID:                  "fallback-1",
			SongTitle:           "Tangeld Up In AI Slop!",
			OriginalFilename:    "Tangeld Up In AI Slop!",
			TimestampedFilename: "Tangeld_Up_In_AI_Slop_1683657890.mp4",
			UploadedAt:          time.Date(2023, 5, 9, 14, 31, 30, 0, time.UTC),
			ArtistName:          "Zimmer Quarry Man",
			Source:              NativeSource("https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/dylan_new-1-al3YAXx4Q0yfR3N1AYmL8jmjyiofYi.mp4"),
		},
		{
			ID:                  "fallback-2",
			SongTitle:           "River",
			OriginalFilename:    "River",
			TimestampedFilename: "River_1683657891.mp4",
			UploadedAt:          time.Date(2023, 5, 10, 10, 15, 22, 0, time.UTC),
			ArtistName:          "Sierra Eagleson",
			Source:              NativeSource("https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/river_new-5O5rOKkJpl7QmhQ7aEMXyFdZMzjqLp.mp4"),
		},
		{
			ID:                  "fallback-3",
			SongTitle:           "Mama Tain't Long Before Day",
			OriginalFilename:    "Mama Tain't Long Before Day",
			TimestampedFilename: "Mama_Taint_Long_Before_Day_1683657894.mp4",
			UploadedAt:          time.Date(2023, 5, 13, 13, 10, 45, 0, time.UTC),
			ArtistName:          "James Limerick Kerr",
			Source:              NativeSource("https://dg9gcoxo6erv82nw.public.blob.vercel-storage.com/aint-oPr4xVnZW8lzmdfiTaW4uimKwmefVR.mp4"),
		},
	}
}
