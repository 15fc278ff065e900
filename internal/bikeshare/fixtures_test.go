package bikeshare

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// chicagoCSV has every column; months Jan x3, Feb, Mar x2, Apr, May, Jun x4
// and six Mondays (rows 1, 2, 4, 6, 7, 8).
const chicagoCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
0,2017-01-01 09:07:57,2017-01-01 09:20:53,776,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1984.0
1,2017-01-02 10:15:00,2017-01-02 10:25:00,600,Canal St & Adams St,Clinton St & Madison St,Subscriber,Female,1990.0
2,2017-01-09 10:30:00,2017-01-09 10:40:00,600,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Customer,,
3,2017-02-14 17:45:00,2017-02-14 18:00:00,900,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,1990.0
4,2017-03-06 08:00:00,2017-03-06 08:10:00,600,Clinton St & Madison St,Canal St & Adams St,Subscriber,Male,1975.0
5,2017-03-10 08:20:00,2017-03-10 08:30:00,600,Streeter Dr & Grand Ave,Clinton St & Madison St,Customer,,
6,2017-04-03 17:05:00,2017-04-03 17:30:00,1500,Canal St & Adams St,Lake Shore Dr & Monroe St,Subscriber,Female,1990.0
7,2017-05-01 07:55:00,2017-05-01 08:05:00,600,Canal St & Adams St,Clinton St & Madison St,Subscriber,Male,2001.0
8,2017-06-05 12:00:00,2017-06-05 12:20:00,1200,Streeter Dr & Grand Ave,Streeter Dr & Grand Ave,Customer,,
9,2017-06-23 15:09:32,2017-06-23 15:14:53,321,Wood St & Hubbard St,Damen Ave & Chicago Ave,Subscriber,Male,1992.0
10,2017-06-24 16:00:00,2017-06-24 16:30:00,1800,Streeter Dr & Grand Ave,Lake Shore Dr & Monroe St,Customer,,
11,2017-06-25 18:30:00,2017-06-25 18:45:00,900,Canal St & Adams St,Clinton St & Madison St,Subscriber,Female,1988.0
`

// newYorkCSV has blank gender and birth year cells.
const newYorkCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type,Gender,Birth Year
5688089,2017-06-11 14:55:05,2017-06-11 15:08:21,795,Suffolk St & Stanton St,W Broadway & Spring St,Subscriber,Male,1998.0
4096714,2017-05-11 15:30:11,2017-05-11 15:41:43,692,Lexington Ave & E 63 St,1 Ave & E 78 St,Subscriber,Male,1981.0
2173887,2017-03-29 13:26:26,2017-03-29 13:48:31,1325,E 58 St & Madison Ave,NYCBS Depot - DEL,Customer,,
3945638,2017-05-08 19:47:18,2017-05-08 19:59:01,703,Carroll St & Franklin Ave,Franklin Ave & Empire Blvd,Subscriber,Female,1986.0
`

// washingtonCSV has no Gender or Birth Year columns.
const washingtonCSV = `,Start Time,End Time,Trip Duration,Start Station,End Station,User Type
1621326,2017-06-21 08:36:34,2017-06-21 08:44:43,489.066,14th & Belmont St NW,15th & K St NW,Subscriber
482740,2017-03-11 10:40:00,2017-03-11 10:46:00,402.549,Yuma St & Tenley Circle NW,Connecticut Ave & Yuma St NW,Subscriber
1330037,2017-05-30 01:02:59,2017-05-30 01:13:37,637.251,17th St & Massachusetts Ave NW,5th & K St NW,Subscriber
`

var fixtureRows = map[string]int{
	"chicago":       12,
	"new york city": 4,
	"washington":    3,
}

// writeFixtures writes the three city files into a temp dir.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "chicago.csv", chicagoCSV)
	writeFile(t, dir, "new_york_city.csv", newYorkCSV)
	writeFile(t, dir, "washington.csv", washingtonCSV)
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
