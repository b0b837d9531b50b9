package testutil

// ResultsCSV is a results export for two students. Ravi carries a backlog.
const ResultsCSV = `Student ID,Student Name,Section,Branch,Subject Code,Subject Name,Grade,Credits
2300001,ravi kumar,A,CSE,CS101,Programming,O,4
2300001,ravi kumar,A,CSE,CS102,Data Structures,F,3
2300002,Suresh Babu,B,ECE,CS101,Programming,A,4
`

// AttendanceCSV is an attendance export for the same cohort plus one student
// who only appears here, under a different identifier.
const AttendanceCSV = `Roll No,Name,Subject Code,Subject Name,Classes Held,Classes Attended
2300001,Ravi Kumar,CS201,Algorithms,40,20
2300001,Ravi Kumar,CS202,Databases,40,39
2300002,Suresh Babu,CS201,Algorithms,40,31
T-9,Lakshmi Devi,CS201,Algorithms,40,40
`
